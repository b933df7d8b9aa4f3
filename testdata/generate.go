//go:build ignore

// Generates mpg.parquet from mpg.csv:
//
//	go run generate.go
package main

import (
	"log"
	"os"

	"github.com/vegasq/tabcat/reader"
)

func main() {
	t, err := reader.ReadFile("mpg.csv")
	if err != nil {
		log.Fatal(err)
	}

	file, err := os.Create("mpg.parquet")
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	if err := reader.WriteParquet(file, t); err != nil {
		log.Fatal(err)
	}

	log.Printf("Generated mpg.parquet with %d rows", t.Len())
}
