package op

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrTableNotFound = errors.New("table not found")
	ErrTableExists   = errors.New("table already exists")
)

// Database is a named collection of tables, safe for concurrent use. The
// tables themselves are not locked; callers that mutate a table in place
// hold the database write lock through Update.
type Database struct {
	mu     sync.RWMutex
	tables map[string]*Table
}

func NewDatabase() *Database {
	return &Database{tables: make(map[string]*Table)}
}

// Put stores table under name, replacing any table already there.
func (db *Database) Put(name string, table *Table) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.tables[name] = table
}

// Swap stores table under name and returns the table it replaced, if any.
func (db *Database) Swap(name string, table *Table) (previous *Table, replaced bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	previous, replaced = db.tables[name]
	db.tables[name] = table
	return previous, replaced
}

// Create stores table under name unless the name is taken.
func (db *Database) Create(name string, table *Table) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.tables[name]; ok {
		return fmt.Errorf("%w: %s", ErrTableExists, name)
	}
	db.tables[name] = table
	return nil
}

func (db *Database) Get(name string) (*Table, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	table, ok := db.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return table, nil
}

func (db *Database) Drop(name string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.tables[name]; !ok {
		return fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	delete(db.tables, name)
	return nil
}

// Update runs fn on the named table while holding the write lock.
func (db *Database) Update(name string, fn func(*Table) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	table, ok := db.tables[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return fn(table)
}

// View runs fn on the named tables while holding the read lock.
func (db *Database) View(fn func(get func(name string) (*Table, error)) error) error {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return fn(func(name string) (*Table, error) {
		table, ok := db.tables[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
		}
		return table, nil
	})
}

// TableNames returns the table names in sorted order.
func (db *Database) TableNames() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	names := make([]string, 0, len(db.tables))
	for name := range db.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TableShape names a table and its shape at the time it was read.
type TableShape struct {
	Name string
	Shape
}

// Shapes returns every table's shape, sorted by name, read under one lock.
func (db *Database) Shapes() []TableShape {
	db.mu.RLock()
	defer db.mu.RUnlock()
	shapes := make([]TableShape, 0, len(db.tables))
	for name, table := range db.tables {
		shapes = append(shapes, TableShape{Name: name, Shape: table.Shape()})
	}
	sort.Slice(shapes, func(i, j int) bool { return shapes[i].Name < shapes[j].Name })
	return shapes
}
