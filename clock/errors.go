/*
Copyright (c) csclocks authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package clock

import "github.com/pkg/errors"

// ErrNoParent is returned by parent-relative operations on a clock that
// has no parent, e.g. toParentTime on a RootClock.
var ErrNoParent = errors.New("clock: has no parent")

// ErrImmutable is returned when setting a field that the concrete clock
// kind does not allow to change: speed/tickRate/parent on a RootClock,
// speed/tickRate on an OffsetClock, or availability=false on a RootClock.
var ErrImmutable = errors.New("clock: field is immutable")

// ErrInvalidArgument is returned for out-of-range constructor or setter
// arguments, e.g. tickRate <= 0.
var ErrInvalidArgument = errors.New("clock: invalid argument")

// ErrNoCommonAncestor is returned by cross-clock time conversion when the
// two clocks do not share any ancestor.
var ErrNoCommonAncestor = errors.New("clock: no common ancestor")

// wrapf attaches call-site context to a sentinel error while preserving
// errors.Is/errors.Cause identity.
func wrapf(sentinel error, format string, args ...any) error {
	return errors.Wrapf(sentinel, format, args...)
}
