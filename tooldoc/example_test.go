package tooldoc_test

import (
	"fmt"

	"github.com/jonwraymond/apicatalog/catalog"
	"github.com/jonwraymond/apicatalog/tooldoc"
)

func ExampleDescribe() {
	entry := catalog.Entry{
		Name:        "dns_zone_delete",
		Domain:      "dns",
		Resource:    "zone",
		Operation:   catalog.OpDelete,
		Summary:     "Delete a DNS zone",
		DangerLevel: catalog.DangerHigh,
	}

	summary, _ := tooldoc.Describe(entry, tooldoc.DetailSummary)
	fmt.Println("Summary:", summary.Summary)
	fmt.Println("Has Tool:", summary.Tool != nil)

	schema, _ := tooldoc.Describe(entry, tooldoc.DetailSchema)
	fmt.Println("ID:", schema.ID)
	fmt.Println("Destructive:", schema.Annotations["destructiveHint"])
	// Output:
	// Summary: Delete a DNS zone
	// Has Tool: false
	// ID: dns:dns_zone_delete
	// Destructive: true
}
