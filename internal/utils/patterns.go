package utils

// defaultExclusionPatterns lists names excluded before any user pattern is consulted.
var defaultExclusionPatterns = [...]string{
	// build and dependency directories
	"node_modules",
	"dist",
	"build",
	"bin",
	"obj",
	"target",
	GitDirectoryName,
	".vs",
	".idea",
	"out",
	"intermediate",
	"__pycache__",
	"venv",
	".venv",
	".next",
	"cmake",
	"CMakeFiles",
	"Debug",
	"Release",
	"cmake-build-debug",
	"cmake-build-release",
	"cmake-build",
	".gradle",
	"gradle",
	"gradlew",
	"gradlew.bat",
	"_deps",

	// lock files
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"composer.lock",
	"Gemfile.lock",
	"Cargo.lock",
	"Pipfile.lock",
	"poetry.lock",

	// logs
	"yarn-error.log",
	"npm-debug.log",
	"yarn-debug.log",
	"logs",
	"log",
	"*.log",
	"npm-debug.log*",
	"yarn-debug.log*",
	"yarn-error.log*",
	"lerna-debug.log*",

	"package.json",

	// temporary and output directories
	"output",
	"outputs",
	"temp",
	"tmp",
	"cache",
	".cache",
	".npm",
	".eslintcache",
	".stylelintcache",

	// coverage and test outputs
	"coverage",
	".coverage",
	"report",
	"reports",
	"test-results",
	"test-output",
	"junit-reports",
	"artifacts",
	".artifacts",
	".output",
	".coverage.*",
	"htmlcov",
	".tox",
	"nosetests.xml",
	"coverage.xml",
	"*.cover",
	".hypothesis",
	"cypress/videos",
	"cypress/screenshots",

	// system files
	".DS_Store",
	"Thumbs.db",

	// python
	"*.pyc",
	"*.pyo",
	"*.pyd",
	".Python",
	".pytest_cache",

	// environment files
	"env",
	"ENV",
	".env",
	".env.local",
	".env.development.local",
	".env.test.local",
	".env.production.local",
}

// alwaysIncludeFiles bypass exclusion patterns and binary detection.
var alwaysIncludeFiles = map[string]struct{}{
	"Dockerfile":     {},
	"Makefile":       {},
	"Procfile":       {},
	"Jenkinsfile":    {},
	"Vagrantfile":    {},
	"Gemfile":        {},
	"Rakefile":       {},
	"README":         {},
	"LICENSE":        {},
	"CHANGELOG":      {},
	".gitignore":     {},
	".gitattributes": {},
	".dockerignore":  {},
	".editorconfig":  {},
	".env.example":   {},
	"go.mod":         {},
	"tsconfig.json":  {},
}

// lockFiles are always excluded regardless of content.
var lockFiles = map[string]struct{}{
	"package-lock.json":   {},
	"npm-shrinkwrap.json": {},
	"yarn.lock":           {},
	"pnpm-lock.yaml":      {},
	"bun.lockb":           {},
	"composer.lock":       {},
	"Gemfile.lock":        {},
	"Cargo.lock":          {},
	"Pipfile.lock":        {},
	"poetry.lock":         {},
	"uv.lock":             {},
	"go.sum":              {},
	"flake.lock":          {},
	"mix.lock":            {},
	"Podfile.lock":        {},
	"pubspec.lock":        {},
	"packages.lock.json":  {},
}

var binaryFileExtensions = map[string]struct{}{
	// images
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".bmp": {}, ".ico": {},
	".webp": {}, ".tif": {}, ".tiff": {}, ".psd": {}, ".heic": {}, ".avif": {},
	// audio and video
	".mp3": {}, ".wav": {}, ".ogg": {}, ".flac": {}, ".aac": {}, ".m4a": {},
	".mp4": {}, ".avi": {}, ".mov": {}, ".mkv": {}, ".webm": {}, ".wmv": {},
	// archives
	".zip": {}, ".tar": {}, ".gz": {}, ".tgz": {}, ".bz2": {}, ".xz": {},
	".7z": {}, ".rar": {}, ".jar": {}, ".war": {}, ".iso": {}, ".dmg": {},
	// executables and objects
	".exe": {}, ".dll": {}, ".so": {}, ".dylib": {}, ".a": {}, ".o": {},
	".obj": {}, ".lib": {}, ".bin": {}, ".class": {}, ".pyc": {}, ".pyo": {},
	".wasm": {}, ".apk": {}, ".node": {},
	// fonts
	".ttf": {}, ".otf": {}, ".woff": {}, ".woff2": {}, ".eot": {},
	// documents and data stores
	".pdf": {}, ".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {}, ".ppt": {},
	".pptx": {}, ".sqlite": {}, ".sqlite3": {}, ".db": {}, ".dat": {},
}

var textFileExtensions = map[string]struct{}{
	".txt": {}, ".md": {}, ".markdown": {}, ".rst": {}, ".csv": {}, ".tsv": {},
	".go": {}, ".js": {}, ".mjs": {}, ".cjs": {}, ".ts": {}, ".jsx": {}, ".tsx": {},
	".py": {}, ".rb": {}, ".java": {}, ".kt": {}, ".kts": {}, ".scala": {},
	".c": {}, ".h": {}, ".cc": {}, ".cpp": {}, ".hpp": {}, ".cs": {}, ".rs": {},
	".php": {}, ".swift": {}, ".m": {}, ".dart": {}, ".lua": {}, ".pl": {},
	".r": {}, ".ex": {}, ".exs": {}, ".erl": {}, ".hs": {}, ".clj": {},
	".sh": {}, ".bash": {}, ".zsh": {}, ".fish": {}, ".ps1": {}, ".bat": {},
	".html": {}, ".htm": {}, ".css": {}, ".scss": {}, ".sass": {}, ".less": {},
	".vue": {}, ".svelte": {}, ".svg": {}, ".xml": {},
	".json": {}, ".yaml": {}, ".yml": {}, ".toml": {}, ".ini": {}, ".cfg": {},
	".conf": {}, ".properties": {}, ".env": {},
	".sql": {}, ".graphql": {}, ".proto": {}, ".tf": {}, ".hcl": {},
	".gradle": {}, ".cmake": {}, ".mk": {}, ".dockerfile": {},
}

// DefaultExclusionPatterns returns a copy of the built-in exclusion patterns in declaration order.
func DefaultExclusionPatterns() []string {
	patterns := make([]string, len(defaultExclusionPatterns))
	copy(patterns, defaultExclusionPatterns[:])
	return patterns
}

// IsAlwaysIncluded reports whether the basename bypasses every exclusion rule.
func IsAlwaysIncluded(name string) bool {
	_, found := alwaysIncludeFiles[name]
	return found
}

// IsLockFile reports whether the basename is a dependency-manager lock file.
func IsLockFile(name string) bool {
	_, found := lockFiles[name]
	return found
}

// IsBinaryExtension expects a lower-cased extension including the leading dot.
func IsBinaryExtension(extension string) bool {
	_, found := binaryFileExtensions[extension]
	return found
}

// IsTextExtension expects a lower-cased extension including the leading dot.
func IsTextExtension(extension string) bool {
	_, found := textFileExtensions[extension]
	return found
}
