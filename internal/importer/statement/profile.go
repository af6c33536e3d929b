package statement

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle means one signed column (e.g. "Importe" with value "-10,00").
	amountSingle amountMode = iota
	// amountSplit means separate debit and credit columns (e.g. "Cargo"/"Abono").
	amountSplit
)

// Profile describes the column layout of a bank or card statement export.
type Profile struct {
	Name       string
	DateCol    string
	DescCol    string
	AmountMode amountMode
	AmountCol  string // amountSingle
	DebitCol   string // amountSplit
	CreditCol  string // amountSplit

	// ChargesPositive is set for card statements that list purchases as
	// positive amounts and refunds as negative ones.
	ChargesPositive bool
}

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

// profiles is tried in order; layouts with more columns come first.
var profiles = []Profile{
	{
		Name:       "tarjeta-cargos",
		DateCol:    "fecha",
		DescCol:    "concepto",
		AmountMode: amountSplit,
		DebitCol:   "cargo",
		CreditCol:  "abono",
	},
	{
		Name:       "cartão",
		DateCol:    "data",
		DescCol:    "descrição",
		AmountMode: amountSplit,
		DebitCol:   "débito",
		CreditCol:  "crédito",
	},
	{
		Name:            "tarjeta",
		DateCol:         "fecha operación",
		DescCol:         "comercio",
		AmountMode:      amountSingle,
		AmountCol:       "importe",
		ChargesPositive: true,
	},
	{
		Name:       "cuenta",
		DateCol:    "fecha",
		DescCol:    "concepto",
		AmountMode: amountSingle,
		AmountCol:  "importe",
	},
	{
		Name:       "extrato",
		DateCol:    "data mov.",
		DescCol:    "descrição",
		AmountMode: amountSingle,
		AmountCol:  "movimento",
	},
	{
		Name:       "conta",
		DateCol:    "data mov.",
		DescCol:    "descrição",
		AmountMode: amountSingle,
		AmountCol:  "montante",
	},
}
