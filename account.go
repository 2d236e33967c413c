package worth

// Account describes one brokerage or bank account in the tracker.
type Account struct {
	Name        string
	Owner       string
	Broker      string
	Description string
	Active      bool
	// Qualified marks tax-advantaged wrappers (IRA, 401k). Qualified
	// accounts are excluded from realized-gains reporting.
	Qualified bool
}

// AccountResolver resolves account metadata by name.
type AccountResolver interface {
	Account(name string) (Account, bool)
}

// AccountMap is an AccountResolver backed by a map.
type AccountMap map[string]Account

func (m AccountMap) Account(name string) (Account, bool) {
	a, ok := m[name]
	return a, ok
}

// accountOrDefault returns the account metadata, or an active
// non-qualified placeholder when the account is not declared.
func (e *Engine) accountOrDefault(name string) Account {
	if e.Accounts != nil {
		if a, ok := e.Accounts.Account(name); ok {
			return a
		}
	}
	return Account{Name: name, Active: true}
}
