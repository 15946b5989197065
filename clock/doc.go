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

/*
Package clock implements hierarchies of software clocks for real-time
media synchronization scenarios such as DVB CSS / HbbTV 2 companion
screens.

A clock exposes a monotonic, query-at-any-time tick counter whose value
is defined by a piecewise-linear relationship to a parent clock; a root
clock wraps the host's wall time. Clocks form a tree; edges carry
correlations (a point of equivalence plus an error model). Mutating any
node's timing relationship propagates a change event down to every
descendant, and any timer scheduled against a descendant's own ticks is
automatically rebound so it still fires at the correct real moment.

The three concrete clock kinds are RootClock (the tree's terminal node,
backed by a Host), CorrelatedClock (a node related to its parent by a
mutable linear correlation) and OffsetClock (a node that is its parent
shifted by a fixed real-time offset). All three satisfy Clock.

The package assumes a single-threaded, cooperative caller: there is no
internal locking, and the only re-entrant call site is a timer callback
firing from the Host's real-time scheduler.
*/
package clock
