package service

import (
	"encoding/json"

	"github.com/ianisnotreal/crypto-tracker-cli/internal/portfolio"
)

// marshalRows renders report rows as the opaque positions payload stored
// inside each snapshot.
func marshalRows(rows []portfolio.Row) (json.RawMessage, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}
	return data, nil
}
