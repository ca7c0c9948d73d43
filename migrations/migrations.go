// Package migrations expone los scripts SQL del esquema embebidos en el binario.
package migrations

import "embed"

// FS scripts NNNN_nombre.sql, aplicados en orden lexicográfico.
//
//go:embed *.sql
var FS embed.FS
