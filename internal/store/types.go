package store

// DbType identifies a storage backend.
type DbType string

const (
	DbTypePostgres DbType = "postgres"
	DbTypeMemory   DbType = "memory"
)

func (t DbType) String() string {
	return string(t)
}

func (t DbType) IsValid() bool {
	switch t {
	case DbTypePostgres, DbTypeMemory:
		return true
	}
	return false
}

// ProviderConfig is the JSON shape of the WALKS_DB_CONFIG environment
// variable, e.g.
//
//	{"db_type":"postgres","extra_details":{"conn_str":"postgres://..."}}
type ProviderConfig struct {
	DbType       DbType                 `json:"db_type"`
	ExtraDetails map[string]interface{} `json:"extra_details"`
}
