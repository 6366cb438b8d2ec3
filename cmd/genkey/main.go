// Command genkey prints a random Base64 secret suitable for jwt.secret
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/elevate/clubhub/internal/pkg/auth"
	"github.com/elevate/clubhub/internal/pkg/logger"
)

func main() {
	size := flag.Int("bytes", 32, "key size in bytes")
	flag.Parse()

	key, err := auth.GenerateSecretKey(*size)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate key")
		os.Exit(1)
	}
	fmt.Println(key)
}
