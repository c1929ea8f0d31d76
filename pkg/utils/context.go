package utils

import "context"

type contextKey string

const ActorKey contextKey = "actor"

const (
	ActorAdmin    = "admin"
	ActorCustomer = "customer"
)

// SetActorContext records who is performing the request.
func SetActorContext(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}

// GetActorFromContext returns the request actor, defaulting to customer.
func GetActorFromContext(ctx context.Context) string {
	actor, ok := ctx.Value(ActorKey).(string)
	if !ok || actor == "" {
		return ActorCustomer
	}
	return actor
}
