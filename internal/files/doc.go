// Package files discovers the inputs of a trends run: the year directories
// under the data root and, inside each, the category file for a dataset.
//
// Example usage:
//
//	discovery := files.NewDiscovery(logger)
//	years, err := discovery.ListYearDirectories("data")
//	for _, year := range years {
//	    file, ok, err := discovery.LocateCategoryFile(year, dataset)
//	    // ok == false: no file in this year matches the dataset
//	}
package files
