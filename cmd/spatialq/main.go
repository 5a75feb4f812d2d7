// Command spatialq loads a CSV file of points into a spatial index and runs a
// single query against it.
//
//	spatialq --index quad --quad-k 4 --points pts.csv knn 2 9,2
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
