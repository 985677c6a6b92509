package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bitloot/bitloot/internal/domain/model"
	"github.com/bitloot/bitloot/internal/domain/repository"
	pkgAuth "github.com/bitloot/bitloot/internal/pkg/auth"
)

// CallerContext carries everything known about the requester of a sensitive
// order read.
type CallerContext struct {
	User         *pkgAuth.Claims
	SessionToken string
	IPAddress    string
	UserAgent    string
}

// AccessDecision is the outcome of an ownership check.
type AccessDecision struct {
	Granted bool
	Method  model.AccessMethod
}

// OwnershipResolver decides whether a caller may read an order's secret
// materials. Checks run in priority order; the first match wins.
type OwnershipResolver struct {
	orders   repository.OrderRepository
	sessions pkgAuth.SessionStrategy
	logger   *slog.Logger
}

// NewOwnershipResolver constructs OwnershipResolver.
func NewOwnershipResolver(orders repository.OrderRepository, sessions pkgAuth.SessionStrategy, logger *slog.Logger) *OwnershipResolver {
	return &OwnershipResolver{orders: orders, sessions: sessions, logger: logger}
}

// ResolveAccessByID looks the order up and runs the ownership checks.
// Returns ErrNotFound when the order does not exist; the decision itself is
// never an error.
func (r *OwnershipResolver) ResolveAccessByID(ctx context.Context, orderID string, caller CallerContext) (*model.Order, AccessDecision, error) {
	order, err := r.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, AccessDecision{}, err
	}
	return order, r.ResolveAccess(order, caller), nil
}

// ResolveAccess runs the checks against an already-loaded order.
func (r *OwnershipResolver) ResolveAccess(order *model.Order, caller CallerContext) AccessDecision {
	decision := r.resolve(order, caller)
	r.logger.Info("ownership check",
		slog.String("order_id", order.ID),
		slog.Bool("granted", decision.Granted),
		slog.String("method", string(decision.Method)),
	)
	return decision
}

func (r *OwnershipResolver) resolve(order *model.Order, caller CallerContext) AccessDecision {
	// Session token claims must match both the order id and its email;
	// a token issued for another order is useless here even when the
	// emails coincide.
	if caller.SessionToken != "" {
		claims, err := r.sessions.ParseOrderToken(caller.SessionToken)
		if err == nil && claims.OrderID == order.ID && strings.EqualFold(claims.Email, order.Email) {
			return AccessDecision{Granted: true, Method: model.AccessMethodSessionToken}
		}
	}

	if caller.User != nil {
		if caller.User.IsAdmin() {
			return AccessDecision{Granted: true, Method: model.AccessMethodAdmin}
		}
		if order.UserID != nil && caller.User.UserID != "" && caller.User.UserID == *order.UserID {
			return AccessDecision{Granted: true, Method: model.AccessMethodUserID}
		}
		if caller.User.Email != "" && strings.EqualFold(caller.User.Email, order.Email) {
			return AccessDecision{Granted: true, Method: model.AccessMethodEmail}
		}
	}

	return AccessDecision{}
}
