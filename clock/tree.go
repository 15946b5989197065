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

// WalkAncestry calls visit on self and then each successive parent, up
// to and including the root. It stops as soon as visit returns false.
func WalkAncestry(self Clock, visit func(Clock) bool) {
	var cur Clock = self
	for cur != nil {
		if !visit(cur) {
			return
		}
		cur = cur.Parent()
	}
}

// Descendants returns every clock reachable below self by following
// child links, in breadth-first order. A clock with no children
// returns nil.
func Descendants(self Clock) []Clock {
	var out []Clock
	queue := childrenOf(self)
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		out = append(out, c)
		queue = append(queue, childrenOf(c)...)
	}
	return out
}
