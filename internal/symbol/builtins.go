package symbol

// PythonBuiltins lists the names pre-registered as Builtin symbols in every
// module's root context, mirroring `dir(builtins)` in
// original_source/rattr/models/symbol/_symbols.py. It is not exhaustive of
// every CPython builtin; it covers the ones a static effect-analyser needs
// to recognize as callable-but-inert (or, for the four attribute-access
// builtins, callable-with-plugin-provided-effects).
var PythonBuiltins = []string{
	"abs", "aiter", "anext", "all", "any", "ascii", "bin", "bool", "breakpoint",
	"bytearray", "bytes", "callable", "chr", "classmethod", "compile", "complex",
	"delattr", "dict", "dir", "divmod", "enumerate", "eval", "exec", "filter",
	"float", "format", "frozenset", "getattr", "globals", "hasattr", "hash",
	"help", "hex", "id", "input", "int", "isinstance", "issubclass", "iter",
	"len", "list", "locals", "map", "max", "memoryview", "min", "next", "object",
	"oct", "open", "ord", "pow", "print", "property", "range", "repr", "reversed",
	"round", "set", "setattr", "slice", "sorted", "staticmethod", "str", "sum",
	"super", "tuple", "type", "vars", "zip",
	"ArithmeticError", "AssertionError", "AttributeError", "BaseException",
	"BlockingIOError", "BrokenPipeError", "BufferError", "BytesWarning",
	"DeprecationWarning", "EOFError", "Ellipsis", "EnvironmentError", "Exception",
	"False", "FileExistsError", "FileNotFoundError", "FloatingPointError",
	"FutureWarning", "GeneratorExit", "IOError", "ImportError", "ImportWarning",
	"IndentationError", "IndexError", "InterruptedError", "IsADirectoryError",
	"KeyError", "KeyboardInterrupt", "LookupError", "MemoryError",
	"ModuleNotFoundError", "NameError", "None", "NotADirectoryError",
	"NotImplemented", "NotImplementedError", "OSError", "OverflowError",
	"PendingDeprecationWarning", "PermissionError", "ProcessLookupError",
	"RecursionError", "ReferenceError", "ResourceWarning", "RuntimeError",
	"RuntimeWarning", "StopAsyncIteration", "StopIteration", "SyntaxError",
	"SyntaxWarning", "SystemError", "SystemExit", "TabError", "TimeoutError",
	"True", "TypeError", "UnboundLocalError", "UnicodeDecodeError",
	"UnicodeEncodeError", "UnicodeError", "UnicodeTranslateError",
	"UnicodeWarning", "UserWarning", "ValueError", "Warning", "ZeroDivisionError",
}

// ModuleLevelDunderAttrs are the sentinel module-level dunder names
// pre-seeded into every root context, mirroring
// MODULE_LEVEL_DUNDER_ATTRS in
// original_source/rattr/models/context/_root_context.py.
var ModuleLevelDunderAttrs = []string{
	"__name__", "__file__", "__doc__", "__package__", "__loader__", "__spec__",
	"__builtins__", "__all__", "__path__",
}
