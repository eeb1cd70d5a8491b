package account

import "xcmScope/internal/model"

// Registry tracks the sender accounts referenced by one batch. An account is
// created on its first reference; later references reuse it.
type Registry struct {
	seen     map[string]struct{}
	accounts []model.Account
}

func NewRegistry() *Registry {
	return &Registry{seen: make(map[string]struct{})}
}

// Reference returns the account for id, creating it on first use.
func (r *Registry) Reference(id string) model.Account {
	if _, ok := r.seen[id]; !ok {
		r.seen[id] = struct{}{}
		r.accounts = append(r.accounts, model.Account{ID: id})
	}
	return model.Account{ID: id}
}

// Accounts returns the referenced accounts in first-reference order.
func (r *Registry) Accounts() []model.Account {
	out := make([]model.Account, len(r.accounts))
	copy(out, r.accounts)
	return out
}

func (r *Registry) Len() int {
	return len(r.accounts)
}

// Collect returns the distinct senders of transfers in first-reference order.
func Collect(transfers []model.Transfer) []model.Account {
	registry := NewRegistry()
	for _, transfer := range transfers {
		if transfer.From == "" {
			continue
		}
		registry.Reference(transfer.From)
	}
	return registry.Accounts()
}
