// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package encode

import (
	"fmt"

	"github.com/go-air/dmfb/dag"
)

// placement codes which devices each node needs on the perimeter or grid.
func (e *Encoder) placement() error {
	v := e.v
	for i := 0; i < e.g.Len(); i++ {
		switch k := e.g.Node(i).Kind; k {
		case dag.KindDispense:
			e.exactlyOne(v.disp[i])
		case dag.KindMix:
			for _, m := range v.disp[i] {
				e.clause(m.Not())
			}
		case dag.KindOutput:
			e.exactlyOne(v.sink[i])
		case dag.KindDetect:
			e.clause(v.det[i]...)
		default:
			return fmt.Errorf("encode: node %d: %w: %s", i, dag.ErrUnknownKind, k)
		}
	}
	return nil
}
