package CommitFrame

import (
	"github.com/nickyhof/CommitFrame/db"
	"github.com/nickyhof/CommitFrame/op"
	"github.com/nickyhof/CommitFrame/ps"
)

// Instance is a set of named tables shared by every engine it hands out.
type Instance struct {
	Database *op.Database
	Options  ps.Options
}

func Open(opts ps.Options) *Instance {
	return &Instance{
		Database: op.NewDatabase(),
		Options:  opts,
	}
}

// Engine returns an engine over the instance's tables.
func (instance *Instance) Engine() *db.Engine {
	return &db.Engine{
		Database: instance.Database,
		Options:  instance.Options,
	}
}
