package slot

import (
	"sort"
	"sync"
	"testing"
)

func TestGetStoresDefaultOnFirstRead(t *testing.T) {
	calls := 0
	counter := New("counter", func() int {
		calls++
		return 41
	})
	c := NewContainer()

	if Has(c, counter) {
		t.Fatal("expected slot to be absent before first read")
	}
	if got := Get(c, counter); got != 41 {
		t.Fatalf("expected default 41, got %d", got)
	}
	if got := Get(c, counter); got != 41 {
		t.Fatalf("expected stored default 41, got %d", got)
	}
	if calls != 1 {
		t.Fatalf("expected factory to run once, ran %d times", calls)
	}
	if !Has(c, counter) {
		t.Fatal("expected slot to be present after first read")
	}
}

func TestSetOverwritesAndIsVisibleToLaterReads(t *testing.T) {
	name := Value("name", "default")
	c := NewContainer()

	Set(c, name, "first")
	Set(c, name, "second")

	if got := Get(c, name); got != "second" {
		t.Fatalf("expected second, got %q", got)
	}
}

func TestContainersAreIsolated(t *testing.T) {
	items := New("items", func() []string { return nil })
	a, b := NewContainer(), NewContainer()

	Set(a, items, []string{"a"})

	if got := Get(b, items); len(got) != 0 {
		t.Fatalf("expected isolated container, got %v", got)
	}
}

func TestNilFactoryYieldsZeroValue(t *testing.T) {
	flag := New[bool]("flag", nil)
	if Get(NewContainer(), flag) {
		t.Fatal("expected zero value")
	}
}

func TestUpdateSerializesConcurrentAppends(t *testing.T) {
	items := New("items", func() []int { return nil })
	c := NewContainer()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			Update(c, items, func(cur []int) []int { return append(cur, n) })
		}(i)
	}
	wg.Wait()

	got := Get(c, items)
	if len(got) != 50 {
		t.Fatalf("expected 50 entries, got %d", len(got))
	}
	sort.Ints(got)
	for i, v := range got {
		if v != i {
			t.Fatalf("expected %d at %d, got %d", i, i, v)
		}
	}
}

func TestPatchAppliesInOrder(t *testing.T) {
	title := Value("title", "")
	count := Value("count", 0)
	c := NewContainer()

	patch := Patch{
		Assign(title, "draft"),
		Assign(count, 1),
		Assign(title, "final"),
		nil,
	}
	patch.Apply(c)

	if Get(c, title) != "final" || Get(c, count) != 1 {
		t.Fatalf("unexpected values: %q %d", Get(c, title), Get(c, count))
	}
	keys := patch.Keys()
	if len(keys) != 3 || keys[0] != "title" || keys[1] != "count" {
		t.Fatalf("unexpected keys: %v", keys)
	}
	if c.Len() != 2 {
		t.Fatalf("expected two stored slots, got %d", c.Len())
	}
}

func TestSlotIDsAreUnique(t *testing.T) {
	a := Value("same", 1)
	b := Value("same", 1)
	if a.ID() == b.ID() {
		t.Fatal("expected distinct ids for distinct slots")
	}
}
