package slim

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DumpPopulationFile writes pop to the file at path under an exclusive
// advisory lock (dumplock_unix.go / dumplock_windows.go), so an embedder
// that shares one dump path across processes never observes a
// half-written file.
func DumpPopulationFile(path string, pop *Population) error {
	return withFileLock(path, true, func(f *os.File) error {
		return DumpPopulation(f, pop)
	})
}

// LoadPopulationFile reads a population dump from the file at path
// under a shared advisory lock.
func LoadPopulationFile(path string, types map[int]*MutationType, chroms map[int]*Chromosome) (*Population, error) {
	var pop *Population
	err := withFileLock(path, false, func(f *os.File) error {
		p, err := LoadPopulation(f, types, chroms)
		pop = p
		return err
	})
	return pop, err
}

// DumpPopulation writes pop to w in the engine's plain-text population
// dump format (§6): a header comment, a Populations section listing
// each subpopulation's id and size, a Mutations section listing every
// mutation still segregating anywhere in the population, and a Genomes
// section listing every individual's two genome copies by the mutation
// ids they carry. LoadPopulation reads this text back into a Population
// with the same generation, subpopulation sizes, mutations and genomes.
// Subpopulation selfing and cloning fractions, migration rates, and the
// population's fixed-mutation substitutions are not written, so a loaded
// population has zero or empty values for them.
func DumpPopulation(w io.Writer, pop *Population) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "#OUT: %d %s\n", pop.Generation, time.Now().UTC().Format(time.RFC3339))

	fmt.Fprintln(bw, "Populations:")
	for _, id := range pop.SubpopIDs() {
		sp := pop.Subpops[id]
		fmt.Fprintf(bw, "p%d %d\n", id, sp.Size())
	}

	mutSeen := map[*Mutation]bool{}
	mutCount := map[*Mutation]int{}
	var muts []*Mutation
	for _, id := range pop.SubpopIDs() {
		sp := pop.Subpops[id]
		for _, ind := range sp.parents {
			for _, g := range []*Genome{ind.Genome1, ind.Genome2} {
				for _, m := range g.Mutations {
					if !mutSeen[m] {
						mutSeen[m] = true
						muts = append(muts, m)
					}
					mutCount[m]++
				}
			}
		}
	}
	sort.Slice(muts, func(i, j int) bool { return muts[i].ID < muts[j].ID })

	// Mutations: index, type-id, position, selection-coefficient,
	// origin-subpop, origin-generation, count (§6).
	fmt.Fprintln(bw, "Mutations:")
	for _, m := range muts {
		fmt.Fprintf(bw, "%d m%d %d %g %d %d %d\n", m.ID, m.Type.ID, m.Position, m.SelectionCoeff, m.OriginSubpopID, m.OriginGeneration, mutCount[m])
	}

	fmt.Fprintln(bw, "Genomes:")
	for _, id := range pop.SubpopIDs() {
		sp := pop.Subpops[id]
		for i, ind := range sp.parents {
			fmt.Fprintf(bw, "p%d:%d:1 %s\n", id, i, genomeMutIDs(ind.Genome1))
			fmt.Fprintf(bw, "p%d:%d:2 %s\n", id, i, genomeMutIDs(ind.Genome2))
		}
	}
	return bw.Flush()
}

func genomeMutIDs(g *Genome) string {
	if g.Null {
		return "<null>"
	}
	if len(g.Mutations) == 0 {
		return ""
	}
	parts := make([]string, len(g.Mutations))
	for i, m := range g.Mutations {
		parts[i] = strconv.FormatInt(m.ID, 10)
	}
	return strings.Join(parts, " ")
}

// LoadPopulation parses a dump produced by DumpPopulation into a fresh
// Population, reconstructing mutation type references from types (keyed
// by the mutation-type id embedded in the dump, e.g. "m1") and chromosome
// references from chroms (keyed by subpopulation id), and resumes the
// global id counter after the highest id seen so newly created
// mutations never collide with ids read from the file.
func LoadPopulation(r io.Reader, types map[int]*MutationType, chroms map[int]*Chromosome) (*Population, error) {
	sc := bufio.NewScanner(r)
	pop := NewPopulation()

	section := ""
	sizes := map[int]int{}
	var order []int
	mutsByID := map[int64]*Mutation{}
	var maxID int64
	genomesByKey := map[string]*Genome{}

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#OUT:") {
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				gen, err := strconv.Atoi(fields[1])
				if err != nil {
					return nil, simErrf("invalid generation in dump header: %v", err)
				}
				pop.Generation = gen
			}
			continue
		}
		switch line {
		case "Populations:", "Mutations:", "Genomes:":
			section = line
			continue
		}
		fields := strings.Fields(line)
		switch section {
		case "Populations:":
			id, err := strconv.Atoi(strings.TrimPrefix(fields[0], "p"))
			if err != nil {
				return nil, simErrf("invalid subpopulation id %q: %v", fields[0], err)
			}
			size, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, simErrf("invalid subpopulation size %q: %v", fields[1], err)
			}
			sizes[id] = size
			order = append(order, id)
			chrom, ok := chroms[id]
			if !ok {
				return nil, simErrf("no chromosome supplied for subpopulation %d", id)
			}
			sp := &Subpopulation{ID: id, Chromosome: chrom, TargetSize: size}
			sp.parents = make([]Individual, size)
			if err := pop.AddSubpopulation(sp); err != nil {
				return nil, err
			}
		case "Mutations:":
			id, err := strconv.ParseInt(fields[0], 10, 64)
			if err != nil {
				return nil, simErrf("invalid mutation id %q: %v", fields[0], err)
			}
			typeID, err := strconv.Atoi(strings.TrimPrefix(fields[1], "m"))
			if err != nil {
				return nil, simErrf("invalid mutation type %q: %v", fields[1], err)
			}
			mt, ok := types[typeID]
			if !ok {
				return nil, simErrf("no mutation type supplied for m%d", typeID)
			}
			pos, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, simErrf("invalid mutation position %q: %v", fields[2], err)
			}
			sel, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return nil, simErrf("invalid selection coefficient %q: %v", fields[3], err)
			}
			// fields[4]=origin-subpop, fields[5]=origin-generation,
			// fields[6]=count (§6); count is derivable from the Genomes
			// section and is not required to reconstruct the population.
			originSub, _ := strconv.Atoi(fields[4])
			originGen, _ := strconv.Atoi(fields[5])
			m := &Mutation{ID: id, Type: mt, Position: pos, SelectionCoeff: sel, OriginGeneration: originGen, OriginSubpopID: originSub}
			mutsByID[id] = m
			if id > maxID {
				maxID = id
			}
		case "Genomes:":
			key := fields[0] // p<id>:<index>:<1|2>
			var g *Genome
			if len(fields) >= 2 && fields[1] == "<null>" {
				g = NewNullGenome()
			} else {
				g = NewGenome()
				for _, tok := range fields[1:] {
					mid, err := strconv.ParseInt(tok, 10, 64)
					if err != nil {
						return nil, simErrf("invalid mutation reference %q: %v", tok, err)
					}
					m, ok := mutsByID[mid]
					if !ok {
						return nil, simErrf("genome references unknown mutation id %d", mid)
					}
					g.AddMutation(m)
				}
			}
			genomesByKey[key] = g
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	for _, id := range order {
		sp := pop.Subpops[id]
		for i := 0; i < sizes[id]; i++ {
			g1, ok1 := genomesByKey[fmt.Sprintf("p%d:%d:1", id, i)]
			g2, ok2 := genomesByKey[fmt.Sprintf("p%d:%d:2", id, i)]
			if !ok1 || !ok2 {
				return nil, simErrf("missing genome entries for individual %d in subpopulation %d", i, id)
			}
			ind := Individual{Genome1: g1, Genome2: g2}
			ind.Fitness = EvaluateFitness(ind)
			sp.parents[i] = ind
		}
	}
	resetIDCounterAfter(maxID)
	return pop, nil
}
