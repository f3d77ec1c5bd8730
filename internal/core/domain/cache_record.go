package domain

// CacheRecord maps a contract's content hash to its last compiled artifact.
type CacheRecord struct {
	ContractPath         string `json:"contract_path"`
	CompiledContractPath string `json:"compiled_contract_path"`
	Hash                 string `json:"hash"`
}

// Matches reports whether the record was produced from content with the given digest.
// A record that does not match is stale.
func (r *CacheRecord) Matches(digest string) bool {
	return r != nil && r.Hash != "" && r.Hash == digest
}
