package filter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	apitype "github.com/adminhub/adminhub/pkg/apis/api"
)

// LinkOperator determines how to chain multiple filters together, 'AND' and 'OR'
// are supported.
type LinkOperator string

const (
	LinkOperatorAnd LinkOperator = "and"
	LinkOperatorOr  LinkOperator = "or"
)

// Operator defines an operator used for filter items such as equals, contains, etc,
// as well as the arithmetic operators like ==, !=, >, etc.
type Operator string

const (
	OperatorContains   Operator = "contains"
	OperatorEquals     Operator = "equals"
	OperatorStartsWith Operator = "starts with"
	OperatorEndsWith   Operator = "ends with"
	OperatorIsEmpty    Operator = "is empty"
	OperatorIsNotEmpty Operator = "is not empty"

	OperatorArithmeticEquals              Operator = "="
	OperatorArithmeticNotEquals           Operator = "!="
	OperatorArithmeticGreaterThan         Operator = ">"
	OperatorArithmeticGreaterThanOrEquals Operator = ">="
	OperatorArithmeticLessThan            Operator = "<"
	OperatorArithmeticLessThanOrEquals    Operator = "<="
)

// Filter is a collection of FilterItem, with a link operator. It is used to chain
// filters together, for example: where field contains role and changed_by > 10.
type Filter struct {
	Items        []FilterItem `json:"items"`
	LinkOperator LinkOperator `json:"linkOperator"`
}

// FilterItem is an individual filter consisting of a field, operator,
// value and a not boolean that negates the operator. For example:
// field contains role, or field not contains role.
type FilterItem struct {
	Field    string   `json:"columnField"`
	Not      bool     `json:"not"`
	Operator Operator `json:"operatorValue"`
	Value    string   `json:"value"`
}

// Filterable is anything whose filterable columns can be typed; unknown
// columns report ColumnTypeUnknown and are rejected.
type Filterable interface {
	GetFieldType(param string) apitype.ColumnType
}

func (f FilterItem) orFilterToSQL(db *gorm.DB) *gorm.DB { //nolint
	switch f.Operator {
	case OperatorContains:
		if f.Not {
			db = db.Or(fmt.Sprintf("%q NOT LIKE ?", f.Field), fmt.Sprintf("%%%s%%", f.Value))
		} else {
			db = db.Or(fmt.Sprintf("%q LIKE ?", f.Field), fmt.Sprintf("%%%s%%", f.Value))
		}
	case OperatorEquals, OperatorArithmeticEquals:
		if f.Not {
			db = db.Or(fmt.Sprintf("%q != ?", f.Field), f.Value)
		} else {
			db = db.Or(fmt.Sprintf("%q = ?", f.Field), f.Value)
		}
	case OperatorArithmeticGreaterThan:
		if f.Not {
			db = db.Or(fmt.Sprintf("%q <= ?", f.Field), f.Value)
		} else {
			db = db.Or(fmt.Sprintf("%q > ?", f.Field), f.Value)
		}
	case OperatorArithmeticGreaterThanOrEquals:
		if f.Not {
			db = db.Or(fmt.Sprintf("%q < ?", f.Field), f.Value)
		} else {
			db = db.Or(fmt.Sprintf("%q >= ?", f.Field), f.Value)
		}
	case OperatorArithmeticLessThan:
		if f.Not {
			db = db.Or(fmt.Sprintf("%q >= ?", f.Field), f.Value)
		} else {
			db = db.Or(fmt.Sprintf("%q < ?", f.Field), f.Value)
		}
	case OperatorArithmeticLessThanOrEquals:
		if f.Not {
			db = db.Or(fmt.Sprintf("%q > ?", f.Field), f.Value)
		} else {
			db = db.Or(fmt.Sprintf("%q <= ?", f.Field), f.Value)
		}
	case OperatorArithmeticNotEquals:
		if f.Not {
			db = db.Or(fmt.Sprintf("%q = ?", f.Field), f.Value)
		} else {
			db = db.Or(fmt.Sprintf("%q <> ?", f.Field), f.Value)
		}
	case OperatorStartsWith:
		if f.Not {
			db = db.Or(fmt.Sprintf("%q NOT LIKE ?", f.Field), fmt.Sprintf("%s%%", f.Value))
		} else {
			db = db.Or(fmt.Sprintf("%q LIKE ?", f.Field), fmt.Sprintf("%s%%", f.Value))
		}
	case OperatorEndsWith:
		if f.Not {
			db = db.Or(fmt.Sprintf("%q NOT LIKE ?", f.Field), fmt.Sprintf("%%%s", f.Value))
		} else {
			db = db.Or(fmt.Sprintf("%q LIKE ?", f.Field), fmt.Sprintf("%%%s", f.Value))
		}
	case OperatorIsEmpty:
		if f.Not {
			db = db.Or(fmt.Sprintf("%q != ?", f.Field), "")
		} else {
			db = db.Or(fmt.Sprintf("%q = ?", f.Field), "")
		}
	case OperatorIsNotEmpty:
		if f.Not {
			db = db.Or(fmt.Sprintf("%q = ?", f.Field), "")
		} else {
			db = db.Or(fmt.Sprintf("%q != ?", f.Field), "")
		}
	}
	return db
}

func (f FilterItem) andFilterToSQL(db *gorm.DB) *gorm.DB { //nolint
	switch f.Operator {
	case OperatorContains:
		if f.Not {
			db = db.Not(fmt.Sprintf("%q LIKE ?", f.Field), fmt.Sprintf("%%%s%%", f.Value))
		} else {
			db = db.Where(fmt.Sprintf("%q LIKE ?", f.Field), fmt.Sprintf("%%%s%%", f.Value))
		}
	case OperatorEquals, OperatorArithmeticEquals:
		if f.Not {
			db = db.Not(fmt.Sprintf("%q = ?", f.Field), f.Value)
		} else {
			db = db.Where(fmt.Sprintf("%q = ?", f.Field), f.Value)
		}
	case OperatorArithmeticGreaterThan:
		if f.Not {
			db = db.Not(fmt.Sprintf("%q > ?", f.Field), f.Value)
		} else {
			db = db.Where(fmt.Sprintf("%q > ?", f.Field), f.Value)
		}
	case OperatorArithmeticGreaterThanOrEquals:
		if f.Not {
			db = db.Not(fmt.Sprintf("%q >= ?", f.Field), f.Value)
		} else {
			db = db.Where(fmt.Sprintf("%q >= ?", f.Field), f.Value)
		}
	case OperatorArithmeticLessThan:
		if f.Not {
			db = db.Not(fmt.Sprintf("%q < ?", f.Field), f.Value)
		} else {
			db = db.Where(fmt.Sprintf("%q < ?", f.Field), f.Value)
		}
	case OperatorArithmeticLessThanOrEquals:
		if f.Not {
			db = db.Not(fmt.Sprintf("%q <= ?", f.Field), f.Value)
		} else {
			db = db.Where(fmt.Sprintf("%q <= ?", f.Field), f.Value)
		}
	case OperatorArithmeticNotEquals:
		if f.Not {
			db = db.Not(fmt.Sprintf("%q <> ?", f.Field), f.Value)
		} else {
			db = db.Where(fmt.Sprintf("%q <> ?", f.Field), f.Value)
		}
	case OperatorStartsWith:
		if f.Not {
			db = db.Not(fmt.Sprintf("%q LIKE ?", f.Field), fmt.Sprintf("%s%%", f.Value))
		} else {
			db = db.Where(fmt.Sprintf("%q LIKE ?", f.Field), fmt.Sprintf("%s%%", f.Value))
		}
	case OperatorEndsWith:
		if f.Not {
			db = db.Not(fmt.Sprintf("%q LIKE ?", f.Field), fmt.Sprintf("%%%s", f.Value))
		} else {
			db = db.Where(fmt.Sprintf("%q LIKE ?", f.Field), fmt.Sprintf("%%%s", f.Value))
		}
	case OperatorIsEmpty:
		if f.Not {
			db = db.Not(fmt.Sprintf("%q = ?", f.Field), "")
		} else {
			db = db.Where(fmt.Sprintf("%q = ?", f.Field), "")
		}
	case OperatorIsNotEmpty:
		if f.Not {
			db = db.Where(fmt.Sprintf("%q = ?", f.Field), "")
		} else {
			db = db.Not(fmt.Sprintf("%q = ?", f.Field), "")
		}
	}

	return db
}

type FilterOptions struct {
	Filter *Filter
	Limit  int
}

// FilterOptionsFromRequest parses the optional MUI data-grid style "filter"
// query param plus a limit.
func FilterOptionsFromRequest(req *http.Request) (*FilterOptions, error) {
	filterOpts := &FilterOptions{}
	queryFilter := req.URL.Query().Get("filter")
	filter := &Filter{}
	if queryFilter != "" {
		if err := json.Unmarshal([]byte(queryFilter), filter); err != nil {
			return filterOpts, fmt.Errorf("could not unmarshal filter: %w", err)
		}
	}
	filterOpts.Filter = filter

	limitParam := req.URL.Query().Get("limit")
	if limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil {
			return filterOpts, fmt.Errorf("error parsing limit param: %s", err)
		}
		filterOpts.Limit = limit
	}

	return filterOpts, nil
}

// ErrUnknownField marks filter items naming columns the filterable does not
// expose; callers map it to a bad-request response.
var ErrUnknownField = fmt.Errorf("unknown filterable field")

// Validate rejects filter items naming columns the filterable does not expose.
func (filters *Filter) Validate(filterable Filterable) error {
	for _, f := range filters.Items {
		if filterable.GetFieldType(f.Field) == apitype.ColumnTypeUnknown {
			return fmt.Errorf("%s: %w", f.Field, ErrUnknownField)
		}
	}
	return nil
}

func (filters Filter) ToSQL(db *gorm.DB) *gorm.DB {
	for _, f := range filters.Items {
		if filters.LinkOperator == LinkOperatorAnd || filters.LinkOperator == "" {
			db = f.andFilterToSQL(db)
		} else if filters.LinkOperator == LinkOperatorOr {
			db = f.orFilterToSQL(db)
		}
	}

	return db
}
