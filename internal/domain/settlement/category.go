package settlement

// ExpenseCategory represents the category of a shared expense
type ExpenseCategory string

const (
	ExpenseCategoryGroceries     ExpenseCategory = "GROCERIES"
	ExpenseCategoryRent          ExpenseCategory = "RENT"
	ExpenseCategoryUtilities     ExpenseCategory = "UTILITIES"
	ExpenseCategoryHousehold     ExpenseCategory = "HOUSEHOLD"
	ExpenseCategoryTransport     ExpenseCategory = "TRANSPORT"
	ExpenseCategoryEntertainment ExpenseCategory = "ENTERTAINMENT"
	ExpenseCategoryOther         ExpenseCategory = "OTHER"
)

// IsValid checks if the category is a valid ExpenseCategory
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case ExpenseCategoryGroceries, ExpenseCategoryRent, ExpenseCategoryUtilities,
		ExpenseCategoryHousehold, ExpenseCategoryTransport, ExpenseCategoryEntertainment,
		ExpenseCategoryOther:
		return true
	}
	return false
}

// String returns the string representation of ExpenseCategory
func (c ExpenseCategory) String() string {
	return string(c)
}
