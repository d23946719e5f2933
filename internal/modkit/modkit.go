// Package modkit builds api modules from shared deps and options
package modkit

import "postcraft/internal/modkit/module"

// Module is the contract api mounting relies on
type Module = module.Module
