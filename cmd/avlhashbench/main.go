// Command avlhashbench compares avlhash.Map, avltree.Tree, and Go's
// builtin map[int]int over the same build/contains-sweep/clear phases
// run by the AVL-vs-rbtree comparison this module's core is descended
// from, one run per .toml scenario file in a directory.
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/danswartzendruber/avlhash"
	"github.com/danswartzendruber/avlhash/avltree"
)

// TestCase reflects one .toml scenario file: NumKeys random, distinct
// int keys are built, then looked up, then cleared, once per
// Iterations, against every structure in this driver.
type TestCase struct {
	Name       string
	NumKeys    int
	Iterations int
}

func (tc *TestCase) validate() error {
	if tc.NumKeys <= 0 {
		return fmt.Errorf("scenario %q: NumKeys must be positive", tc.Name)
	}
	if tc.Iterations <= 0 {
		tc.Iterations = 1
	}
	return nil
}

func loadScenarios(dir string) ([]*TestCase, error) {
	var cases []*TestCase
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".toml") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		tc := &TestCase{}
		if err := toml.Unmarshal(data, tc); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := tc.validate(); err != nil {
			return err
		}
		cases = append(cases, tc)
		return nil
	})
	return cases, err
}

// shuffledKeys mirrors default_make_avl_element's Fisher-Yates shuffle
// of 0..n so every structure under comparison sees the same insertion
// order within a run.
func shuffledKeys(n int) []int {
	keys := make([]int, n)
	for i := range keys {
		keys[i] = i
		pos := rand.Intn(i + 1)
		keys[i], keys[pos] = keys[pos], keys[i]
	}
	return keys
}

func (tc *TestCase) run() {
	for i := 0; i < tc.Iterations; i++ {
		keys := shuffledKeys(tc.NumKeys)
		fmt.Printf("\n==== %s (iteration %d, n=%d) ====\n", tc.Name, i, tc.NumKeys)
		runAvlHash(keys)
		runAvlTree(keys)
		runBuiltinMap(keys)
	}
}

func runAvlHash(keys []int) {
	m := avlhash.New[int, int]()
	total := time.Duration(0)

	start := time.Now()
	for _, k := range keys {
		m.Insert(k, k*2)
	}
	d := time.Since(start)
	total += d
	fmt.Printf("avlhash  build: size=%d time=%s maxBucketLoad=%d\n", m.Len(), d, m.MaxBucketLoad())

	count := 0
	start = time.Now()
	for _, k := range keys {
		if m.ContainsKey(k) {
			count++
		}
	}
	d = time.Since(start)
	total += d
	fmt.Printf("avlhash  contains: count=%d time=%s\n", count, d)

	start = time.Now()
	m.Clear()
	d = time.Since(start)
	total += d
	fmt.Printf("avlhash  clear: time=%s total=%s\n", d, total)
}

func runAvlTree(keys []int) {
	var t avltree.Tree[int, int]
	total := time.Duration(0)

	start := time.Now()
	for _, k := range keys {
		t.Insert(k, k*2)
	}
	d := time.Since(start)
	total += d
	fmt.Printf("avltree  build: size=%d time=%s\n", t.Len(), d)

	count := 0
	start = time.Now()
	for _, k := range keys {
		if t.Contains(k) {
			count++
		}
	}
	d = time.Since(start)
	total += d
	fmt.Printf("avltree  contains: count=%d time=%s\n", count, d)

	start = time.Now()
	t.Clear()
	d = time.Since(start)
	total += d
	fmt.Printf("avltree  clear: time=%s total=%s\n", d, total)
}

func runBuiltinMap(keys []int) {
	m := make(map[int]int, len(keys))
	total := time.Duration(0)

	start := time.Now()
	for _, k := range keys {
		m[k] = k * 2
	}
	d := time.Since(start)
	total += d
	fmt.Printf("map[int]int build: size=%d time=%s\n", len(m), d)

	count := 0
	start = time.Now()
	for _, k := range keys {
		if _, ok := m[k]; ok {
			count++
		}
	}
	d = time.Since(start)
	total += d
	fmt.Printf("map[int]int contains: count=%d time=%s\n", count, d)

	start = time.Now()
	clear(m)
	d = time.Since(start)
	total += d
	fmt.Printf("map[int]int clear: time=%s total=%s\n", d, total)
}

func main() {
	dir := flag.String("scenarios", "./scenarios", "directory of .toml scenario files")
	flag.Parse()

	cases, err := loadScenarios(*dir)
	if err != nil {
		log.Fatalln("could not load scenarios:", err)
	}
	if len(cases) == 0 {
		log.Fatalln("no .toml scenarios found in", *dir)
	}

	for _, tc := range cases {
		tc.run()
	}
}
