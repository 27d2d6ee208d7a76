// Package shared holds helpers used across the trends packages that do not
// belong to a single domain layer.
//
// The testutil subpackage provides a buffered slog handler for asserting log
// output and fixtures for building year-organised data trees in t.TempDir().
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    root := testutil.YearTree(t, map[string]map[string]string{
//	        "2015": {"offender_sex_2015.csv": "sex,count\nM,100\n"},
//	    })
//	    logger, handler := testutil.NewTestLogger(t)
//	    // ...
//	}
package shared
