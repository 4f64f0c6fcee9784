package bitset

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSet(t *testing.T) {
	Convey("Given a bitset over a universe spanning multiple words", t, func() {
		s := New(130)

		Convey("When elements are added", func() {
			s.Add(0)
			s.Add(63)
			s.Add(64)
			s.Add(129)

			Convey("Contains reports them and only them", func() {
				So(s.Contains(0), ShouldBeTrue)
				So(s.Contains(63), ShouldBeTrue)
				So(s.Contains(64), ShouldBeTrue)
				So(s.Contains(129), ShouldBeTrue)
				So(s.Contains(1), ShouldBeFalse)
				So(s.Contains(128), ShouldBeFalse)
			})

			Convey("Count and Slice agree", func() {
				So(s.Count(), ShouldEqual, 4)
				So(s.Slice(), ShouldResemble, []int{0, 63, 64, 129})
			})

			Convey("Min returns the smallest member", func() {
				m, ok := s.Min()
				So(ok, ShouldBeTrue)
				So(m, ShouldEqual, 0)
			})

			Convey("Remove deletes a member", func() {
				s.Remove(63)
				So(s.Contains(63), ShouldBeFalse)
				So(s.Count(), ShouldEqual, 3)
			})
		})

		Convey("A fresh set is empty and has no minimum", func() {
			So(s.IsEmpty(), ShouldBeTrue)
			_, ok := s.Min()
			So(ok, ShouldBeFalse)
		})

		Convey("Full populates the entire universe", func() {
			f := Full(130)
			So(f.Count(), ShouldEqual, 130)
			So(f.Contains(129), ShouldBeTrue)
		})
	})

	Convey("Given two bitsets over the same universe", t, func() {
		a := FromSlice(10, []int{1, 2, 3})
		b := FromSlice(10, []int{3, 4, 5})

		Convey("Union combines members", func() {
			u := a.Clone()
			u.Union(b)
			So(u.Slice(), ShouldResemble, []int{1, 2, 3, 4, 5})
		})

		Convey("Intersect keeps only shared members", func() {
			i := a.Clone()
			i.Intersect(b)
			So(i.Slice(), ShouldResemble, []int{3})
		})

		Convey("Subtract removes members present in the other set", func() {
			d := a.Clone()
			d.Subtract(b)
			So(d.Slice(), ShouldResemble, []int{1, 2})
		})

		Convey("Equal compares membership, not object identity", func() {
			c := a.Clone()
			So(c.Equal(a), ShouldBeTrue)
			So(a.Equal(b), ShouldBeFalse)
		})
	})
}
