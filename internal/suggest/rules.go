package suggest

import "regexp"

type ruleKind int

const (
	// kindField resolves one scalar profile value.
	kindField ruleKind = iota
	// kindInsuranceRecords emits one suggestion per active policy.
	kindInsuranceRecords
	// kindExperienceTop3 emits the three most recent project names.
	kindExperienceTop3
	// kindCertificationRecords emits one suggestion per active certification.
	kindCertificationRecords
	// kindInsuranceField resolves a specific policy type for a form field,
	// answering with the coverage amount or the provider depending on the
	// field's wording.
	kindInsuranceField
	// kindCostField resolves a project-cost column.
	kindCostField
)

// rule is one row of the pattern table. Inputs are lowercased before
// matching, so the patterns carry no case flags.
type rule struct {
	contexts   Context
	re         *regexp.Regexp
	kind       ruleKind
	category   string
	field      string // display label; doubles as the policy type for kindInsuranceField
	source     string // store column key for kindField / kindCostField
	confidence float64
}

// Query keyword groups: a group regex shared by several rows keeps the
// original emission order — all fields of a matched group appear in table
// order before the next group's.
var (
	companyGroupRE     = regexp.MustCompile(`company|organization|business|abn|acn|nzbn|charity|gst`)
	contactGroupRE     = regexp.MustCompile(`contact|phone|email|representative`)
	financialGroupRE   = regexp.MustCompile(`turnover|revenue|financial|income`)
	insuranceGroupRE   = regexp.MustCompile(`insurance|liability|coverage|indemnity`)
	experienceGroupRE  = regexp.MustCompile(`experience|project|previous|similar`)
	certificationGroup = regexp.MustCompile(`license|permit|certification|qualified`)
)

// rules is the consolidated pattern table. Row order is load-bearing
// twice over: query rows emit in table order (the within-tier order after
// the stable sort), and the pdf/web contexts take the first row that
// matches and resolves. The generic fallbacks (bare "address", bare
// "profit") therefore sit after the specific rows they would shadow.
var rules = []rule{
	// --- query keyword groups ---
	{Query, companyGroupRE, kindField, "NZ Business Info", "NZBN", "nzbn", 0.95},
	{Query, companyGroupRE, kindField, "NZ Business Info", "Company Number", "company_number", 0.9},
	{Query, companyGroupRE, kindField, "NZ Business Info", "Charity Number", "charity_number", 0.9},
	{Query, companyGroupRE, kindField, "NZ Business Info", "GST Number", "gst_number", 0.9},
	{Query, companyGroupRE, kindField, "Australian Business Info", "ABN", "abn", 0.8},
	{Query, companyGroupRE, kindField, "Company Info", "Business Address", "business_address", 0.8},
	{Query, contactGroupRE, kindField, "Contact", "Phone", "phone", 0.9},
	{Query, contactGroupRE, kindField, "Contact", "Email", "email", 0.9},
	{Query, financialGroupRE, kindField, "Financial", "Annual Turnover", "annual_turnover", 0.8},
	{Query, insuranceGroupRE, kindInsuranceRecords, "Insurance", "", "", 0.8},
	{Query, experienceGroupRE, kindExperienceTop3, "Experience", "Project", "", 0.7},
	{Query, certificationGroup, kindCertificationRecords, "Certifications", "", "", 0.8},

	// --- pdf/web form field mappings ---
	{PDF | Web, regexp.MustCompile(`company[_\s]?name|organization[_\s]?name|business[_\s]?name|applicant[_\s]?name|organisation[_\s]?name`), kindField, "Form Field", "company_name", "company_name", 0.9},
	{Web, regexp.MustCompile(`abn|australian[_\s]?business[_\s]?number`), kindField, "Form Field", "abn", "abn", 0.9},
	{Web, regexp.MustCompile(`acn|australian[_\s]?company[_\s]?number`), kindField, "Form Field", "acn", "acn", 0.9},
	{PDF | Web, regexp.MustCompile(`nzbn|new[_\s]?zealand[_\s]?business[_\s]?number`), kindField, "Form Field", "nzbn", "nzbn", 0.9},
	{PDF | Web, regexp.MustCompile(`company[_\s]?number|nz[_\s]?company[_\s]?number`), kindField, "Form Field", "company_number", "company_number", 0.9},
	{PDF | Web, regexp.MustCompile(`charity[_\s]?number|charity[_\s]?registration|charities[_\s]?number`), kindField, "Form Field", "charity_number", "charity_number", 0.9},
	{PDF | Web, regexp.MustCompile(`gst[_\s]?number|goods[_\s]?and[_\s]?services[_\s]?tax`), kindField, "Form Field", "gst_number", "gst_number", 0.9},
	{PDF | Web, regexp.MustCompile(`business[_\s]?address|company[_\s]?address|address`), kindField, "Form Field", "business_address", "business_address", 0.9},
	{PDF | Web, regexp.MustCompile(`postal[_\s]?address|mailing[_\s]?address`), kindField, "Form Field", "postal_address", "postal_address", 0.9},
	{PDF | Web, regexp.MustCompile(`phone|telephone|contact[_\s]?number`), kindField, "Form Field", "phone", "phone", 0.9},
	{PDF | Web, regexp.MustCompile(`email|e[-_\s]?mail`), kindField, "Form Field", "email", "email", 0.9},
	{PDF | Web, regexp.MustCompile(`website|web[_\s]?site|url`), kindField, "Form Field", "website", "website", 0.9},
	{PDF | Web, regexp.MustCompile(`annual[_\s]?turnover|yearly[_\s]?revenue|annual[_\s]?revenue`), kindField, "Form Field", "annual_turnover", "annual_turnover", 0.9},
	{Web, regexp.MustCompile(`assets?[_\s]?value|total[_\s]?assets`), kindField, "Form Field", "assets_value", "assets_value", 0.9},
	{Web, regexp.MustCompile(`profit|net[_\s]?income`), kindField, "Form Field", "profit_loss", "profit_loss", 0.9},
	{PDF | Web, regexp.MustCompile(`bank[_\s]?name|banking[_\s]?institution`), kindField, "Form Field", "bank_name", "bank_name", 0.9},
	{PDF, regexp.MustCompile(`account[_\s]?name|bank[_\s]?account[_\s]?name`), kindField, "Form Field", "bank_account_name", "bank_account_name", 0.9},
	{PDF, regexp.MustCompile(`account[_\s]?number|bank[_\s]?account[_\s]?number`), kindField, "Form Field", "bank_account_number", "bank_account_number", 0.9},
	{Web, regexp.MustCompile(`employees?[_\s]?count|staff[_\s]?size|number[_\s]?of[_\s]?employees`), kindField, "Form Field", "employees_count", "employees_count", 0.9},
	{Web, regexp.MustCompile(`business[_\s]?type|company[_\s]?type|organization[_\s]?type`), kindField, "Form Field", "business_type", "business_type", 0.9},
	{Web, regexp.MustCompile(`industry|sector|business[_\s]?sector`), kindField, "Form Field", "industry_sector", "industry_sector", 0.9},
	{Web, regexp.MustCompile(`established|founded|start[_\s]?date`), kindField, "Form Field", "established_date", "established_date", 0.9},

	// --- pdf project-cost rate fields ---
	{PDF, regexp.MustCompile(`project[_\s]?manager[_\s]?rate|manager[_\s]?hourly[_\s]?rate`), kindCostField, "Project Costs", "project_manager_rate", "project_manager_rate", 0.9},
	{PDF, regexp.MustCompile(`supervisor[_\s]?rate|site[_\s]?supervisor[_\s]?rate`), kindCostField, "Project Costs", "site_supervisor_rate", "site_supervisor_rate", 0.9},
	{PDF, regexp.MustCompile(`skilled[_\s]?trades[_\s]?rate|tradesperson[_\s]?rate`), kindCostField, "Project Costs", "skilled_trades_rate", "skilled_trades_rate", 0.9},
	{PDF, regexp.MustCompile(`labor[_\s]?rate|labourer[_\s]?rate|general[_\s]?labor`), kindCostField, "Project Costs", "general_labor_rate", "general_labor_rate", 0.9},
	{PDF, regexp.MustCompile(`office[_\s]?rent|premises[_\s]?cost`), kindCostField, "Project Costs", "office_rent", "office_rent", 0.9},
	{PDF, regexp.MustCompile(`machinery[_\s]?rental|equipment[_\s]?rental|heavy[_\s]?machinery`), kindCostField, "Project Costs", "heavy_machinery_rental", "heavy_machinery_rental", 0.9},
	{PDF, regexp.MustCompile(`insurance[_\s]?cost|insurance[_\s]?premium`), kindCostField, "Project Costs", "insurance_premiums", "insurance_premiums", 0.9},
	{PDF, regexp.MustCompile(`overhead[_\s]?percentage|overhead[_\s]?rate`), kindCostField, "Project Costs", "general_overhead_percentage", "general_overhead_percentage", 0.9},
	{PDF, regexp.MustCompile(`profit[_\s]?margin|profit[_\s]?percentage`), kindCostField, "Project Costs", "profit_margin_percentage", "profit_margin_percentage", 0.9},
	{PDF, regexp.MustCompile(`contingency[_\s]?percentage|contingency[_\s]?allowance`), kindCostField, "Project Costs", "contingency_percentage", "contingency_percentage", 0.9},

	// --- web insurance fields ---
	{Web, regexp.MustCompile(`public[_\s]?liability|general[_\s]?liability`), kindInsuranceField, "Insurance", "Public Liability", "", 0.8},
	{Web, regexp.MustCompile(`professional[_\s]?indemnity|pi[_\s]?insurance`), kindInsuranceField, "Insurance", "Professional Indemnity", "", 0.8},
	{Web, regexp.MustCompile(`workers?[_\s]?comp|workers?[_\s]?compensation`), kindInsuranceField, "Insurance", "Workers Compensation", "", 0.8},
	{Web, regexp.MustCompile(`product[_\s]?liability`), kindInsuranceField, "Insurance", "Product Liability", "", 0.8},
}
