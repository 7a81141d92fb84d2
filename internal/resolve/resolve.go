// Package resolve computes the concrete value a stage rule produces for a
// prospect's data record. It is pure: no storage, no I/O.
package resolve

import (
	"strings"

	"github.com/zulandar/switchboard/internal/models"
)

// columnAliases maps operator-facing column labels to canonical prospect
// field names. Labels not listed here fall back to lowercase with spaces
// replaced by underscores.
var columnAliases = map[string]string{
	"Nama":              "prospect_name",
	"Alamat":            "alamat",
	"Pakej":             "pakej",
	"No Fon":            "no_fon",
	"Tarikh Gaji":       "tarikh_gaji",
	"Cara Bayaran":      "cara_bayaran",
	"Peringkat Sekolah": "peringkat_sekolah",
}

// normalizeColumn converts an operator-facing column label to its canonical
// prospect field name. Stored rules may carry either form.
func normalizeColumn(name string) string {
	if canonical, ok := columnAliases[name]; ok {
		return canonical
	}
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// Value resolves a rule against a prospect record.
//
// Hardcoded rules return their literal value verbatim, even when empty.
// Column rules return the record's value for the rule's source column;
// a column absent from the record yields UnresolvedFieldError rather than
// a silently defaulted value. Any other input type yields
// UnsupportedRuleTypeError.
func Value(r *models.StageRule, record map[string]string) (string, error) {
	switch r.InputType {
	case models.InputHardcoded:
		return r.LiteralValue, nil
	case models.InputColumn:
		column := normalizeColumn(r.SourceColumn)
		v, ok := record[column]
		if !ok {
			return "", &UnresolvedFieldError{Column: column}
		}
		return v, nil
	default:
		return "", &UnsupportedRuleTypeError{InputType: string(r.InputType)}
	}
}
