//go:build swag

package swaggerkit

import docs "postcraft/internal/services/api/docs"

// docReader reads the doc swag generated from the handler annotations
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }
