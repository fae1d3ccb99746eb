//go:build !highs

package lp

import "errors"

func newHiGHS() (Solver, error) {
	return nil, errors.New("lp: binary built without the highs tag")
}
