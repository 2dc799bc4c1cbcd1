package rdbms

import (
	"testing"
)

func TestSchemaTable(t *testing.T) {
	st := NewSchemaTable("public", "fact_sales_order")
	if got := st.GetSchema(); got != "public" {
		t.Fatalf("expected schema = %q; got %q", "public", got)
	}
	if got := st.GetTable(); got != "fact_sales_order" {
		t.Fatalf("expected table = %q; got %q", "fact_sales_order", got)
	}
	if got := st.String(); got != "public.fact_sales_order" {
		t.Fatalf("expected %q; got %q", "public.fact_sales_order", got)
	}

	st = NewSchemaTable("", "dim_date")
	if got := st.String(); got != "dim_date" {
		t.Fatalf("expected %q; got %q", "dim_date", got)
	}
}
