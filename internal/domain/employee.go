package domain

// EmployeeRow is one parsed spreadsheet row keyed by its column header.
type EmployeeRow map[string]string
