package tabledefinition

import (
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// TableList is an immutable ordered list of warehouse table names.
// The order is the order tables are loaded in.
type TableList struct {
	names []string
}

// tableListFile is the shape of the YAML file that can replace the default list.
type tableListFile struct {
	Tables []string `yaml:"tables"`
}

// DefaultWarehouseTables returns the fact tables followed by the dimension tables.
func DefaultWarehouseTables() TableList {
	l, _ := NewTableList(
		"fact_sales_order",
		"fact_purchase_order",
		"fact_payment",
		"dim_currency",
		"dim_location",
		"dim_design",
		"dim_staff",
		"dim_counterparty",
		"dim_date",
		"dim_transaction",
		"dim_payment_type",
	)
	return l
}

// NewTableList returns a TableList containing names in the order given.
// Names must be non-empty, unique and contain no '/' since they prefix object keys.
func NewTableList(names ...string) (TableList, error) {
	seen := make(map[string]struct{}, len(names))
	l := TableList{names: make([]string, 0, len(names))}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			return TableList{}, errors.New("empty table name in table list")
		}
		if strings.Contains(n, "/") {
			return TableList{}, errors.Errorf("table name %q must not contain '/'", n)
		}
		if _, ok := seen[n]; ok {
			return TableList{}, errors.Errorf("table %q appears more than once in table list", n)
		}
		seen[n] = struct{}{}
		l.names = append(l.names, n)
	}
	return l, nil
}

// LoadTableListFile reads a YAML file of the form:
//
//	tables:
//	  - fact_sales_order
//	  - dim_currency
func LoadTableListFile(path string) (TableList, error) {
	p, err := homedir.Expand(path)
	if err != nil {
		return TableList{}, errors.Wrapf(err, "error expanding table list file name %v", path)
	}
	b, err := ioutil.ReadFile(p)
	if err != nil {
		return TableList{}, errors.Wrap(err, "error reading table list file")
	}
	f := tableListFile{}
	if err = yaml.UnmarshalStrict(b, &f); err != nil {
		return TableList{}, errors.Wrapf(err, "error parsing table list file %v", p)
	}
	if len(f.Tables) == 0 {
		return TableList{}, errors.Errorf("table list file %v contains no tables", p)
	}
	l, err := NewTableList(f.Tables...)
	if err != nil {
		return TableList{}, errors.Wrapf(err, "table list file %v", p)
	}
	return l, nil
}

// Names returns a copy of the table names.
func (l TableList) Names() []string {
	n := make([]string, len(l.names))
	copy(n, l.names)
	return n
}

func (l TableList) Len() int {
	return len(l.names)
}

func (l TableList) Contains(name string) bool {
	for _, n := range l.names {
		if n == name {
			return true
		}
	}
	return false
}

func (l TableList) String() string {
	return fmt.Sprintf("[%v]", strings.Join(l.names, ", "))
}
