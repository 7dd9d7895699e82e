package banks

const (
	movimientos     = "Movimientos"
	spanishDate     = "02/01/2006"
	revolutDateTime = "2006-01-02 15:04:05"
)

var (
	bankiaHeaders    = []string{FieldOperationDate, FieldValueDate, FieldDescription, "more", FieldAmount, "total"}
	santanderHeaders = []string{FieldOperationDate, FieldValueDate, FieldDescription, FieldAmount, "total"}
	evoBankHeaders   = []string{FieldOperationDate, FieldValueDate, FieldDescription, FieldAmount, "currency", "total"}
	bankinterHeaders = []string{FieldOperationDate, FieldValueDate, FieldDescription, FieldAmount, "total", "currency"}
	revolutHeaders   = []string{
		"type", "product", FieldOperationDate, FieldValueDate, FieldDescription,
		FieldAmount, "fee", "currency", "state", "total",
	}
	revolutSourceHeaders = []string{
		"Type", "Product", "Started Date", "Completed Date", "Description",
		"Amount", "Fee", "Currency", "State", "Balance",
	}
)

// DefaultRegistry returns a registry with all built-in banks.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Definition{
		Bank:        Bankia,
		Format:      FormatXLS,
		SkipRows:    2,
		Headers:     bankiaHeaders,
		Policy:      SectionRequired,
		Hint:        HintFileStem,
		Account:     "Assets:Emergency fund",
		DateLayouts: []string{spanishDate},
	})
	r.Register(Definition{
		Bank:           Santander,
		Format:         FormatXLS,
		SkipRows:       7,
		Headers:        santanderHeaders,
		Policy:         SectionDefault,
		DefaultSection: movimientos,
		Account:        "Assets:Checking",
		DateLayouts:    []string{spanishDate},
	})
	r.Register(Definition{
		Bank:          Revolut,
		Format:        FormatCSV,
		Headers:       revolutHeaders,
		SourceHeaders: revolutSourceHeaders,
		Policy:        SectionNone,
		Hint:          HintFileStem,
		Account:       "Assets:Revolut",
		DateLayouts:   []string{revolutDateTime},
		Encoding:      "utf-8",
		Delimiter:     ',',
	})
	r.Register(Definition{
		Bank:        EvoBank,
		Format:      FormatXLS,
		SkipRows:    1,
		Headers:     evoBankHeaders,
		Policy:      SectionRequired,
		Hint:        HintFixed,
		HintSection: movimientos,
		Account:     "Assets:EvoBank",
		DateLayouts: []string{spanishDate},
	})
	r.Register(Definition{
		Bank:        Bankinter,
		Format:      FormatXLSX,
		SkipRows:    8,
		Headers:     bankinterHeaders,
		Policy:      SectionRequired,
		Hint:        HintFixed,
		HintSection: movimientos,
		Account:     "Assets:Bankinter",
		DateLayouts: []string{spanishDate},
	})
	return r
}
