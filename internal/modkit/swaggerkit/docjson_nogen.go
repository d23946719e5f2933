//go:build !swag

package swaggerkit

import "github.com/swaggo/swag/v2"

// docReader serves whatever doc is registered under InstanceName, else a skeleton the mounted routes fill in
var docReader = func() string {
	if raw, err := swag.ReadDoc(InstanceName); err == nil {
		return raw
	}
	return skeleton
}
