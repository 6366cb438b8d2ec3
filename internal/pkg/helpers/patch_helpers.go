package helpers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

// PatchValues is a free-form set of field updates keyed by field name
type PatchValues map[string]string

// Keys returns the field names in a stable order
func (p PatchValues) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NonBlank returns the trimmed value of key and whether it is present and non-blank
func (p PatchValues) NonBlank(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// CollectPatchValues gathers text fields from the query string and the form body. Form
// values win over query values, and file fields are skipped. Multipart bodies are parsed
// with the engine's MaxMultipartMemory, which bootstrap sets from server.max_upload_mb. A
// body that cannot be parsed is an error rather than an empty patch.
func CollectPatchValues(c *gin.Context, skip ...string) (PatchValues, error) {
	skipped := make(map[string]struct{}, len(skip))
	for _, s := range skip {
		skipped[s] = struct{}{}
	}

	values := PatchValues{}
	for k, v := range c.Request.URL.Query() {
		if _, ok := skipped[k]; !ok && len(v) > 0 {
			values[k] = v[0]
		}
	}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if _, err := c.MultipartForm(); err != nil {
			return nil, fmt.Errorf("invalid multipart body: %w", err)
		}
	} else if err := c.Request.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form body: %w", err)
	}
	for k, v := range c.Request.PostForm {
		if _, ok := skipped[k]; !ok && len(v) > 0 {
			values[k] = v[0]
		}
	}
	return values, nil
}
