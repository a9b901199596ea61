// Package sheets adapts Google Sheets value and spreadsheet operations for
// the gateway. Ranges use A1 notation; writes use USER_ENTERED input so
// formulas and typed values behave as if typed into the UI.
package sheets
