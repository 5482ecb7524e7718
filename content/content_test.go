package content

import (
	"testing"
	"time"

	"finlearn/core"
)

func TestEveryLessonHasAQuiz(t *testing.T) {
	for _, l := range Lessons {
		qs, ok := QuizFor(l.ID)
		if !ok {
			t.Fatalf("lesson %q has no quiz", l.ID)
		}
		if len(qs) != 3 {
			t.Fatalf("lesson %q quiz has %d questions", l.ID, len(qs))
		}
		for i, q := range qs {
			if q.Correct < 0 || q.Correct >= len(q.Options) {
				t.Fatalf("lesson %q question %d correct index out of range", l.ID, i)
			}
		}
	}
}

func TestLessonByID(t *testing.T) {
	l, ok := LessonByID("savings-1")
	if !ok || l.XP != 75 {
		t.Fatalf("got %+v ok=%v", l, ok)
	}
	if _, ok := LessonByID("nope"); ok {
		t.Fatal("unknown lesson found")
	}
}

func TestLessonUnlocked(t *testing.T) {
	p := core.NewGuestProgress(time.Now())
	basics, _ := LessonByID("money-basics-1")
	investing, _ := LessonByID("investing-1")
	if !basics.Unlocked(p) {
		t.Fatal("first lesson should be open at level 1")
	}
	if investing.Unlocked(p) {
		t.Fatal("investing should be gated at level 1")
	}
	p.Level = 4
	if !investing.Unlocked(p) {
		t.Fatal("investing should open at level 4")
	}
}

func TestGrade(t *testing.T) {
	// all correct
	res, ok := Grade("money-basics-1", []int{0, 3, 0})
	if !ok || !res.Passed || res.Score != 3 || res.XPEarned != QuizPassXP {
		t.Fatalf("got %+v ok=%v", res, ok)
	}

	// 2 of 3 correct still passes the 60% bar
	res, _ = Grade("money-basics-1", []int{0, 3, 1})
	if !res.Passed || res.Score != 2 {
		t.Fatalf("got %+v", res)
	}

	// 1 of 3 fails and earns the consolation XP
	res, _ = Grade("money-basics-1", []int{0})
	if res.Passed || res.XPEarned != QuizFailXP {
		t.Fatalf("got %+v", res)
	}

	if _, ok := Grade("unknown", nil); ok {
		t.Fatal("unknown quiz graded")
	}
}

func TestLessonsByCategory(t *testing.T) {
	order, groups := LessonsByCategory()
	if len(order) != 4 {
		t.Fatalf("categories = %v", order)
	}
	if order[0] != "Money Basics" || len(groups["Savings"]) != 2 {
		t.Fatalf("grouping wrong: %v %v", order, groups)
	}
}
