// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package gen generates random assays, that is operation graphs of
// dispense, mix and output nodes.
//
// Package gen also supplies a random session, which returns a given result
// within a random period of time.
package gen
