// preprocess.go — public entry points wiring the pipeline stages together.
//
// The pipeline is strictly single-threaded and synchronous: each call owns
// its token stream, AST, and output buffer, so Preprocess is pure and
// re-entrant. Two invocations on independent inputs cannot interfere.
package surplus

// Sourcemap modes.
const (
	SourcemapNone    = ""        // return the plain compiled source
	SourcemapExtract = "extract" // return the source and the map separately
	SourcemapAppend  = "append"  // inline the map as a data-URL comment
)

// Dialect selects the surface syntax being parsed. The zero value is the
// brace dialect, so a partially filled Options keeps the default.
type Dialect int

const (
	DialectJSX    Dialect = iota // {expr} inserts, {...expr} mixins (default)
	DialectNative                // @expr inserts and mixins
)

// Options control the preprocessor. Every field is optional and defaulted
// independently: a nil Options, the zero Options and a partial literal all
// mean "JSX dialect, no sourcemap, in.js/out.js".
type Options struct {
	Sourcemap  string  // SourcemapNone, SourcemapExtract or SourcemapAppend
	Sourcefile string  // name recorded in the map's sources, default "in.js"
	Targetfile string  // name recorded in the map's file, default "out.js"
	Dialect    Dialect // DialectJSX (default) or DialectNative
}

// DefaultOptions returns the defaults: JSX dialect, no sourcemap,
// in.js/out.js file names.
func DefaultOptions() *Options {
	return &Options{Sourcefile: "in.js", Targetfile: "out.js"}
}

func (o *Options) jsx() bool { return o.Dialect != DialectNative }

// Preprocess translates src to the plain base language. With
// SourcemapAppend the result carries an inline data-URL sourcemap comment;
// with SourcemapExtract the map is computed and dropped (use
// PreprocessExtract to keep it). The only possible error is a *ParseError.
func Preprocess(src string, opts *Options) (string, error) {
	opts = fillOptions(opts)
	out, m, err := run(src, opts)
	if err != nil {
		return "", err
	}
	if opts.Sourcemap == SourcemapAppend {
		return appendMap(out, m), nil
	}
	return out, nil
}

// PreprocessExtract translates src and returns the stripped source together
// with its sourcemap.
func PreprocessExtract(src string, opts *Options) (string, *SourceMap, error) {
	opts = fillOptions(opts)
	if opts.Sourcemap == SourcemapNone {
		opts.Sourcemap = SourcemapExtract
	}
	out, m, err := run(src, opts)
	if err != nil {
		return "", nil, err
	}
	return out, m, nil
}

func run(src string, opts *Options) (string, *SourceMap, error) {
	toks := tokenize(src)
	ast, err := parse(src, toks, opts.jsx())
	if err != nil {
		return "", nil, err
	}
	ast = transform(ast, opts.jsx())
	out := compile(ast, opts)
	if opts.Sourcemap == SourcemapNone {
		return out, nil, nil
	}
	stripped, m := extractMap(out, src, opts)
	return stripped, m, nil
}

func fillOptions(opts *Options) *Options {
	if opts == nil {
		return DefaultOptions()
	}
	o := *opts
	if o.Sourcefile == "" {
		o.Sourcefile = "in.js"
	}
	if o.Targetfile == "" {
		o.Targetfile = "out.js"
	}
	return &o
}
