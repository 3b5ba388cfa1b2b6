package traverse

import (
	"fmt"

	"github.com/LeJamon/goPyth/pkg/account"
)

// Stage names the kind of account an ItemError is about.
type Stage string

const (
	StageMapping Stage = "mapping"
	StageProduct Stage = "product"
	StagePrice   Stage = "price"
)

// ItemError reports a failure to load or decode one account of the walk.
type ItemError struct {
	Stage Stage
	Key   account.Key
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s account %s: %v", e.Stage, e.Key, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}
