package db

import "errors"

// Sentinel errors for engine operations.
var (
	ErrKeyNotFound   = errors.New("db: key not found")
	ErrIndexNotFound = errors.New("db: index not found")
	ErrIndexExists   = errors.New("db: index already exists")
)

// Op constants name the failing engine operation for error context.
const (
	OpCreateIndex = "FT.CREATE"
	OpDropIndex   = "FT.DROPINDEX"
	OpIndexInfo   = "FT.INFO"
	OpAliasAdd    = "FT.ALIASADD"
	OpAliasUpdate = "FT.ALIASUPDATE"
	OpSearch      = "FT.SEARCH"
	OpDel         = "DEL"
	OpHSet        = "HSET"
	OpGet         = "GET"
	OpSet         = "SET"
	OpPing        = "PING"

	OpMeiliCreateIndex = "meili.CreateIndex"
	OpMeiliDeleteIndex = "meili.DeleteIndex"
	OpMeiliGetIndex    = "meili.GetIndex"
	OpMeiliSettings    = "meili.UpdateSettings"
	OpMeiliAddDocs     = "meili.AddDocuments"
	OpMeiliUpdateDocs  = "meili.UpdateDocuments"
	OpMeiliSearch      = "meili.Search"
	OpMeiliSwap        = "meili.SwapIndexes"
	OpMeiliTask        = "meili.WaitForTask"
	OpMeiliHealth      = "meili.Health"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
