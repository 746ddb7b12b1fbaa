package delivery

import (
	"encoding/json"

	"github.com/rferreira-dev/survshop-backend/pkg/db/models"
	pkgerrors "github.com/rferreira-dev/survshop-backend/pkg/errors"
)

// currencyField is the only banking field the engine may touch. Everything
// else in the banking file belongs to the game server.
const currencyField = "m_OwnedCurrency"

// playerFile is the per-player grant file consumed by the game server.
type playerFile struct {
	ItemToGive  string   `json:"itemToGive"`
	ItemsToGive []string `json:"itemsToGive"`
}

func emptyPlayerFile() playerFile {
	return playerFile{
		ItemToGive:  models.NoItemSentinel,
		ItemsToGive: []string{},
	}
}

func decodePlayerFile(data []byte) (playerFile, error) {
	var file playerFile
	if err := json.Unmarshal(data, &file); err != nil {
		return playerFile{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode player file")
	}
	if file.ItemToGive == "" {
		file.ItemToGive = models.NoItemSentinel
	}
	if file.ItemsToGive == nil {
		file.ItemsToGive = []string{}
	}
	return file, nil
}

// merge appends the new tokens to the pending list, folding in any token
// still sitting in the single-item slot, and deduplicates while preserving
// order. The single-item slot always comes back as the reset sentinel.
func (f playerFile) merge(tokens []string) playerFile {
	seen := make(map[string]bool)
	merged := make([]string, 0, len(f.ItemsToGive)+len(tokens)+1)

	appendToken := func(token string) {
		if token == "" || token == models.NoItemSentinel || seen[token] {
			return
		}
		seen[token] = true
		merged = append(merged, token)
	}

	appendToken(f.ItemToGive)
	for _, token := range f.ItemsToGive {
		appendToken(token)
	}
	for _, token := range tokens {
		appendToken(token)
	}

	return playerFile{
		ItemToGive:  models.NoItemSentinel,
		ItemsToGive: merged,
	}
}

func encodePlayerFile(file playerFile) ([]byte, error) {
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode player file")
	}
	return data, nil
}

// decodeBankingFile keeps the document as a raw map so unknown fields
// survive the rewrite untouched.
func decodeBankingFile(data []byte) (map[string]json.RawMessage, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode banking file")
	}
	return doc, nil
}

func encodeBankingFile(doc map[string]json.RawMessage, amount int64) ([]byte, error) {
	if doc == nil {
		doc = map[string]json.RawMessage{}
	}
	raw, err := json.Marshal(amount)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode currency amount")
	}
	doc[currencyField] = raw

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode banking file")
	}
	return data, nil
}

func encodeVehicleFile(descriptor models.VehicleDescriptor) ([]byte, error) {
	data, err := json.MarshalIndent(descriptor, "", "  ")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode vehicle descriptor")
	}
	return data, nil
}
