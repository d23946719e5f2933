package domain

import "context"

// ServicePort is the rate limited completion capability
type ServicePort interface {
	Complete(ctx context.Context, req Request) (Completion, error)
	Status() Status
}
