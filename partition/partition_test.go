package partition

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/niceyeti/zmecquotient/bitset"
)

func TestPartition(t *testing.T) {
	Convey("Given two disjoint classes over a 6-state universe", t, func() {
		classA := bitset.FromSlice(6, []int{2, 0, 1})
		classB := bitset.FromSlice(6, []int{4, 3})

		Convey("Without keeping singletons, uncovered states map to no class", func() {
			p := FromSets(6, []*bitset.Set{classA, classB}, false)
			So(p.NumClasses(), ShouldEqual, 2)

			idx, ok := p.ClassOf(5)
			So(ok, ShouldBeFalse)
			So(idx, ShouldEqual, -1)
			So(p.MapToRepresentative(5), ShouldEqual, 5)
		})

		Convey("With keeping singletons, every state gets a class", func() {
			p := FromSets(6, []*bitset.Set{classA, classB}, true)
			So(p.NumClasses(), ShouldEqual, 3)
			So(p.NonTrivialClassCount(), ShouldEqual, 2)

			Convey("Representative is the smallest index in each class", func() {
				So(p.RepresentativeAt(0), ShouldEqual, 0)
				So(p.RepresentativeAt(1), ShouldEqual, 3)
			})

			Convey("SameClass holds between members of one class and is false across classes", func() {
				So(p.SameClass(0, 2), ShouldBeTrue)
				So(p.SameClass(0, 3), ShouldBeFalse)
			})

			Convey("MapToRepresentative is idempotent", func() {
				rep := p.MapToRepresentative(2)
				So(p.MapToRepresentative(rep), ShouldEqual, rep)
			})

			Convey("class_of(rep(C)) == C", func() {
				idx, ok := p.ClassOf(0)
				So(ok, ShouldBeTrue)
				repIdx, _ := p.ClassOf(p.RepresentativeAt(idx))
				So(repIdx, ShouldEqual, idx)
			})

			Convey("The singleton class for state 5 has only itself as representative", func() {
				So(p.IsRepresentative(5), ShouldBeTrue)
			})
		})
	})
}
