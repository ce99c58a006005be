package types

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

const (
	UUID_PREFIX_TRACKING     = "trk"
	UUID_PREFIX_RAW_USAGE    = "rusg"
	UUID_PREFIX_INVOICE      = "inv"
	UUID_PREFIX_INVOICE_ITEM = "inv_item"
	UUID_PREFIX_SUBSCRIPTION = "subs"
	UUID_PREFIX_SETTING      = "setting"
)

// GenerateUUID returns a lexically sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns an identifier of the form <prefix>_<ulid>
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return prefix + "_" + GenerateUUID()
}

// HasUUIDPrefix reports whether id was generated with the given prefix
func HasUUIDPrefix(id, prefix string) bool {
	return strings.HasPrefix(id, prefix+"_")
}
