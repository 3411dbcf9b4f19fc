// Command swipe is the CLI surface (§6 External interfaces): makedb,
// dbinfo, getseq and search subcommands, each its own flag.FlagSet with
// a usage() override, the same per-subcommand flag layout the teacher's
// own cmd/ binaries use instead of a single monolithic flag set.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/pkg/errors"

	"github.com/ndaniels/swipe"
	"github.com/ndaniels/swipe/batch"
	"github.com/ndaniels/swipe/dbfile"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "makedb":
		err = runMakedb(os.Args[2:])
	case "dbinfo":
		err = runDbinfo(os.Args[2:])
	case "getseq":
		err = runGetseq(os.Args[2:])
	case "search":
		err = runSearch(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "swipe: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: swipe {makedb|dbinfo|getseq|search} [flags]")
}

func runMakedb(args []string) error {
	fs := flag.NewFlagSet("makedb", flag.ExitOnError)
	in := fs.String("in", "", "input FASTA file")
	db := fs.String("db", "", "output database path")
	masking := fs.Bool("masking", false, "run residues through swipe.Masker before encoding (external masking collaborator, not implemented by swipe itself; a no-op if swipe.Masker is nil)")
	verbose := fs.Bool("v", false, "verbose logging")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: swipe makedb -in proteins.fasta -db proteins.dmnd [-masking=0|1]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	swipe.Verbose = *verbose
	if *in == "" || *db == "" {
		fs.Usage()
		return errors.New("makedb: -in and -db are required")
	}

	f, err := os.Open(*in)
	if err != nil {
		return errors.Wrap(err, "makedb")
	}
	defer f.Close()

	b, err := dbfile.NewBuilder(*db)
	if err != nil {
		return errors.Wrap(err, "makedb")
	}

	sc := swipe.NewScoringContext()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var id string
	var residues []byte
	flush := func() error {
		if id == "" {
			return nil
		}
		src := residues
		if *masking && swipe.Masker != nil {
			src = swipe.Masker(src)
		}
		encoded := make([]byte, len(src))
		for i, r := range src {
			encoded[i] = byte(sc.EncodeResidue(r))
		}
		return b.PushSeq(id, encoded)
	}
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return errors.Wrap(err, "makedb")
			}
			id = line[1:]
			residues = residues[:0]
			continue
		}
		residues = append(residues, line...)
	}
	if err := flush(); err != nil {
		return errors.Wrap(err, "makedb")
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "makedb: scan")
	}
	swipe.Vprintln("wrote database", *db)
	return b.Finish(1)
}

func runDbinfo(args []string) error {
	fs := flag.NewFlagSet("dbinfo", flag.ExitOnError)
	db := fs.String("db", "", "database path")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: swipe dbinfo -db proteins.dmnd")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *db == "" {
		fs.Usage()
		return errors.New("dbinfo: -db is required")
	}
	r, err := dbfile.Open(*db)
	if err != nil {
		return errors.Wrap(err, "dbinfo")
	}
	defer r.Close()
	fmt.Printf("sequences: %d\n", r.Header.Sequences)
	fmt.Printf("letters:   %d\n", r.Header.Letters)
	fmt.Printf("build:     %d\n", r.Header.Build)
	return nil
}

func runGetseq(args []string) error {
	fs := flag.NewFlagSet("getseq", flag.ExitOnError)
	db := fs.String("db", "", "database path")
	index := fs.Int("i", 0, "sequence index")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: swipe getseq -db proteins.dmnd -i 0")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *db == "" {
		fs.Usage()
		return errors.New("getseq: -db is required")
	}
	r, err := dbfile.Open(*db)
	if err != nil {
		return errors.Wrap(err, "getseq")
	}
	defer r.Close()
	residues, id, err := r.ReadSeq(*index)
	if err != nil {
		return errors.Wrap(err, "getseq")
	}
	alphabet := swipe.NewAlphabet(swipe.StandardAlphabet)
	fmt.Printf(">%s\n", id)
	for _, l := range residues {
		fmt.Printf("%c", alphabet.Letter(int8(l)))
	}
	fmt.Println()
	return nil
}

func runSearch(args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	db := fs.String("db", "", "database path")
	query := fs.String("query", "", "query FASTA file")
	threads := fs.Int("threads", runtime.NumCPU(), "worker count")
	chunkSize := fs.Int("chunk-size", 4*1024*1024, "reference block load budget, in letters")
	queryCover := fs.Float64("query-cover", 0, "minimum fraction of the query reading frame an HSP must cover to be reported (0 disables the filter)")
	confPath := fs.String("conf", "", "optional SearchConf file (colon-separated, see swipe.SearchConf)")
	verbose := fs.Bool("v", false, "verbose logging")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: swipe search -db proteins.dmnd -query reads.fasta [-conf search.conf] [-chunk-size N] [-query-cover F]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	swipe.Verbose = *verbose
	if *db == "" || *query == "" {
		fs.Usage()
		return errors.New("search: -db and -query are required")
	}

	conf := *swipe.DefaultSearchConf
	searchConf := &conf
	if *confPath != "" {
		cf, err := os.Open(*confPath)
		if err != nil {
			return errors.Wrap(err, "search")
		}
		searchConf, err = swipe.LoadSearchConf(cf)
		cf.Close()
		if err != nil {
			return errors.Wrap(err, "search: parsing -conf")
		}
	}
	if *threads > 0 {
		searchConf.Threads = *threads
	}

	r, err := dbfile.Open(*db)
	if err != nil {
		return errors.Wrap(err, "search")
	}
	defer r.Close()

	qf, err := os.Open(*query)
	if err != nil {
		return errors.Wrap(err, "search")
	}
	defer qf.Close()

	sc, cfg := searchConf.ScoringContextFrom()
	stats := &swipe.Statistics{}

	type queryRec struct {
		id string
		ts *swipe.TranslatedSequence
	}
	var queries []queryRec
	err = scanFasta(qf, func(id string, residues []byte) error {
		queries = append(queries, queryRec{id: id, ts: swipe.NewTranslatedSequence(sc, residues)})
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "search")
	}

	// Stream the database in blocks (C6's block loader) rather than
	// loading every reference sequence up front, so a database larger
	// than -chunk-size letters never needs to fit in memory at once.
	for {
		block, ok, err := r.LoadBlock(uint64(*chunkSize), nil)
		if err != nil {
			return errors.Wrap(err, "search")
		}
		if !ok {
			break
		}

		var jobs []batch.Job
		var queryIDs, subjectIDs []string
		var queryTS []*swipe.TranslatedSequence
		for _, q := range queries {
			for t := 0; t < block.Len(); t++ {
				target := swipe.DpTarget{Seq: block.Seqs.Get(t), DBegin: 0, DEnd: cfg.HitBand}
				jobs = append(jobs, batch.Job{Query: q.ts, Strand: swipe.Forward, Target: target})
				queryIDs = append(queryIDs, q.id)
				subjectIDs = append(subjectIDs, block.Ids[t])
				queryTS = append(queryTS, q.ts)
			}
		}

		results := batch.Run(context.Background(), sc, jobs, searchConf.Threads)
		for i, res := range results {
			if res.Hsp.Score <= 0 {
				continue
			}
			if *queryCover > 0 {
				frame := queryTS[i].GetStrand(swipe.Forward)[res.Hsp.Frame]
				if frame.Len() == 0 || float64(res.Hsp.QueryRange.Len())/float64(frame.Len()) < *queryCover {
					continue
				}
			}
			fmt.Printf("query=%s subject=%s score=%d query_range=[%d,%d) subject_range=[%d,%d)\n",
				queryIDs[i], subjectIDs[i], res.Hsp.Score,
				res.Hsp.QueryRange.Begin, res.Hsp.QueryRange.End,
				res.Hsp.SubjectRange.Begin, res.Hsp.SubjectRange.End)
		}
	}
	swipe.Vprintf("tentative matches: rung2=%d rung3=%d rung4=%d\n",
		stats.TentativeMatches2, stats.TentativeMatches3, stats.TentativeMatches4)
	return nil
}

func scanFasta(f *os.File, each func(id string, residues []byte) error) error {
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var id string
	var residues []byte
	flush := func() error {
		if id == "" {
			return nil
		}
		return each(id, residues)
	}
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			id = line[1:]
			residues = nil
			continue
		}
		residues = append(residues, line...)
	}
	if err := flush(); err != nil {
		return err
	}
	return scanner.Err()
}
