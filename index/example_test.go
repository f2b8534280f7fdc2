package index_test

import (
	"fmt"

	"github.com/jonwraymond/apicatalog/catalog"
	"github.com/jonwraymond/apicatalog/index"
)

func ExampleTokenize() {
	fmt.Println(index.Tokenize("virtual_http-loadbalancer_create", 2))
	// Output: [virtual http loadbalancer create]
}

func ExampleSearch() {
	idx := index.Build([]catalog.Entry{
		{Name: "dns_zone_create", Domain: "dns", Resource: "zone", Operation: catalog.OpCreate, Summary: "Create a DNS zone"},
		{Name: "dns_record_list", Domain: "dns", Resource: "record", Operation: catalog.OpList, Summary: "List zone records"},
	}, index.BuildOptions{})

	for _, m := range index.Search(idx, []string{"zone"}, index.SearchOptions{}) {
		fmt.Printf("%s %.1f\n", m.ID, m.Score)
	}
	// Output:
	// dns_zone_create 1.0
	// dns_record_list 1.0
}
