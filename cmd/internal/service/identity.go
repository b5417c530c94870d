package service

import (
	"context"
	"fmt"
	"gatherbeat/cmd/internal/domain/entity"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type AccountRepository interface {
	FindByKeyOrEmail(ctx context.Context, key, email string) (*entity.Account, error)
	FindByID(ctx context.Context, id string) (*entity.Account, error)
}

// IdentityResolver joins presence participants to local accounts.
type IdentityResolver struct {
	AccountRepo AccountRepository
	Validate    *validator.Validate
}

func NewIdentityResolver(repo AccountRepository, validate *validator.Validate) *IdentityResolver {
	return &IdentityResolver{
		AccountRepo: repo,
		Validate:    validate,
	}
}

// NormalizeKey turns a display name into an AccountKey: diacritics are
// stripped (NFD, then combining marks dropped) and all whitespace removed.
func NormalizeKey(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}
	return strings.Join(strings.Fields(stripped), "")
}

// Eligible reports whether a participant may produce heartbeats at all:
// id, name and status are set, the name is not reserved and the status is present.
func (r *IdentityResolver) Eligible(p *entity.Participant) bool {
	if p == nil {
		return false
	}
	return r.Validate.Struct(p) == nil
}

// Resolve maps a participant to its account. Ineligible or unknown participants,
// as well as accounts without an api key, yield nil, nil.
func (r *IdentityResolver) Resolve(ctx context.Context, p *entity.Participant) (*entity.Account, error) {
	if !r.Eligible(p) {
		return nil, nil
	}

	key := NormalizeKey(p.Name)
	if key == "" {
		return nil, nil
	}

	account, err := r.AccountRepo.FindByKeyOrEmail(ctx, key, strings.TrimSpace(p.DisplayEmail))
	if err != nil {
		return nil, fmt.Errorf("lookup account %q: %w", key, err)
	}
	return usable(account), nil
}

// ResolveKey re-reads an account by id right before dispatch.
func (r *IdentityResolver) ResolveKey(ctx context.Context, id string) (*entity.Account, error) {
	account, err := r.AccountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lookup account %q: %w", id, err)
	}
	return usable(account), nil
}

func usable(account *entity.Account) *entity.Account {
	if account == nil || account.APIKey == "" {
		return nil
	}
	return account
}
