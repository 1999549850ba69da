package tui

// rowKind is how a declare-screen row responds to keys.
type rowKind int

const (
	rowToggle  rowKind = iota // category on/off
	rowOption                 // cycles through fixed values
	rowCounter                // integer adjusted with left/right
	rowCheck                  // boolean sub-option
	rowAmount                 // decimal entered via text input
)

// field identifies the declaration value a row edits.
type field int

const (
	fieldCategory field = iota
	fieldChildrenCount
	fieldChildrenSplit
	fieldInfantCount
	fieldInfantSplit
	fieldAcademic
	fieldProfessional
	fieldLoanSplit
	fieldRentTier
	fieldElderOnlyChild
	fieldElderShare
	fieldElderSiblings
	fieldElderAmount
	fieldIllnessPay
)
