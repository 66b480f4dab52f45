package output

// DefaultAssumptions lists the modelling assumptions printed with detailed reports.
var DefaultAssumptions = []string{
	"Slab rates and deduction limits for FY 2023-24 unless a rules file overrides them",
	"Health and education cess of 4% on slab tax",
	"Section 87A rebate and surcharge are not applied",
	"HRA exemption uses the non-metro 50% of basic ceiling",
	"Provident fund and other deductions are taken as entered, without caps",
}
