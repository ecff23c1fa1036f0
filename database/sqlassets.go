package sqlassets

import _ "embed"

//go:embed schema/documents.sql
var DocumentsSQL string
