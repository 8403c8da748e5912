package objects

import (
	"fmt"

	"github.com/nautilus-project/nautilus/pkg/program"
)

// IndexSeedPrefix is the seed of the program index account.
const IndexSeedPrefix = "nautilus_index"

// IndexData maps each record table to the number of records created in it.
type IndexData struct {
	Index map[string]uint32
}

// GetCount returns the current record count of table.
func (d *IndexData) GetCount(table string) (uint32, bool) {
	c, ok := d.Index[table]
	return c, ok
}

// GetNextCount returns the id the next record of table will receive.
func (d *IndexData) GetNextCount(table string) (uint32, bool) {
	c, ok := d.Index[table]
	if !ok {
		return 0, false
	}
	return c + 1, true
}

// AddRecord bumps the count of table and returns the new record id.
func (d *IndexData) AddRecord(table string) (uint32, error) {
	c, ok := d.Index[table]
	if !ok {
		return 0, &InsertRecordError{Table: table}
	}
	c++
	d.Index[table] = c
	return c, nil
}

// InsertRecordError is returned when a record is added to an unknown table.
type InsertRecordError struct {
	Table string
}

func (e *InsertRecordError) Error() string {
	return fmt.Sprintf("failed to write new record: table %q is not in the index", e.Table)
}

// Index is the program-wide record counter account.
type Index struct {
	base
	Data *IndexData
}

func NewIndex(ctx *program.Context, self *program.AccountInfo, load bool) (Index, error) {
	idx := Index{base: base{ctx: ctx, account: self}}
	if load && len(self.Data) > 0 {
		var d IndexData
		if err := program.DecodeAccountData(self, &d); err != nil {
			return idx, err
		}
		idx.Data = &d
	}
	return idx, nil
}

// NextRecord returns the id AddRecord would assign in table without
// changing the index.
func (i *Index) NextRecord(table string) (uint32, error) {
	if i.Data == nil {
		return 0, program.NewError(program.KindInvalidAccountData, "index %s is not initialized", i.Key())
	}
	id, ok := i.Data.GetNextCount(table)
	if !ok {
		return 0, program.WrapError(program.KindInvalidAccountData, &InsertRecordError{Table: table})
	}
	return id, nil
}

// AddRecord increments table in the stored index.
func (i *Index) AddRecord(table string) (uint32, error) {
	if i.Data == nil {
		return 0, program.NewError(program.KindInvalidAccountData, "index %s is not initialized", i.Key())
	}
	id, err := i.Data.AddRecord(table)
	if err != nil {
		return 0, program.WrapError(program.KindInvalidAccountData, err)
	}
	if err := program.EncodeAccountData(i.account, *i.Data); err != nil {
		return 0, err
	}
	return id, nil
}

// CreateIndex initializes the index with a zero count for every table.
func CreateIndex(c *Create[Index], tables ...string) error {
	d := IndexData{Index: make(map[string]uint32, len(tables))}
	for _, t := range tables {
		d.Index[t] = 0
	}
	if err := initialize(c, c.ctx.ProgramID(), d); err != nil {
		return err
	}
	c.Self.Data = &d
	return nil
}
