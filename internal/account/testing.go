package account

// SeedAccount inserts an account directly when using the in-memory store.
// Test helper.
func SeedAccount(s Store, acct Account) {
	if mem, ok := s.(*MemoryStore); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.accounts[acct.AccountNumber] = acct
	}
}

// TransactionsFor returns the transactions recorded against an account when
// using the in-memory store, in commit order. Test helper.
func TransactionsFor(s Store, accountNumber string) []Transaction {
	mem, ok := s.(*MemoryStore)
	if !ok {
		return nil
	}
	mem.mu.RLock()
	defer mem.mu.RUnlock()
	var out []Transaction
	for _, txn := range mem.txns {
		if txn.AccountNumber == accountNumber {
			out = append(out, txn)
		}
	}
	return out
}
