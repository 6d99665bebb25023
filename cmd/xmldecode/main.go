// Package main provides the entry point for the xmldecode CLI.
//
// xmldecode finds the elements of an XML document that carry Base64 text,
// decodes them and exports the decoded payloads as a new XML document.
//
// Usage:
//
//	xmldecode decode form.xml
//	cat form.xml | xmldecode decode --format pretty
//	xmldecode extract --element webformData form.xml
//
// See --help for all available options.
package main

func main() {
	Execute()
}
