package ownership

import (
	"time"
)

// Token is the ownership record of one invoice. IDs are assigned sequentially
// starting at 1 and are never reused.
type Token struct {
	ID       int64     `db:"id" json:"id"`
	Owner    string    `db:"owner" json:"owner"`
	TokenURI string    `db:"token_uri" json:"token_uri"`
	MintedAt time.Time `db:"minted_at" json:"minted_at"`
}
