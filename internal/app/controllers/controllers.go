// Package controllers handles HTTP request handling
package controllers

import (
	"errors"
	"net/http"

	"github.com/elevate/clubhub/internal/app/auth"
	"github.com/elevate/clubhub/internal/app/models/dto"
	"github.com/elevate/clubhub/internal/middleware"
	"github.com/elevate/clubhub/internal/pkg/filestorage"
	"github.com/gin-gonic/gin"
)

// currentActor returns the authenticated caller or writes a 401
func currentActor(ctx *gin.Context) (auth.Actor, bool) {
	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return auth.Actor{}, false
	}
	return actor, true
}

// formImage reads an optional image field of a multipart form. A missing file yields nil.
func formImage(ctx *gin.Context, images filestorage.ImageReader, field string) ([]byte, bool) {
	fileHeader, err := ctx.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, true
		}
		middleware.HandleValidationError(ctx, err)
		return nil, false
	}

	data, err := images.ReadImage(fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return nil, false
	}
	return data, true
}
