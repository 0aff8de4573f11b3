package metalava

func resolveAs[T any](s *Scope, key Key) T {
	value, _, _ := s.resolve(descriptorIndex[key])
	typed, _ := value.(T)
	return typed
}

func (s *Scope) assignKey(key Key, value any) {
	s.assign(descriptorIndex[key], value)
}

// Version is the Metalava release to run.
func (s *Scope) Version() string { return resolveAs[string](s, KeyVersion) }

// SetVersion pins the Metalava release for this scope.
func (s *Scope) SetVersion(version string) { s.assignKey(KeyVersion, version) }

// MetalavaJarPath is the custom Metalava JAR, absent unless configured
// somewhere in the chain.
func (s *Scope) MetalavaJarPath() Optional[string] {
	value, present, _ := s.resolve(descriptorIndex[KeyMetalavaJarPath])
	path, ok := value.(string)
	if !present || !ok {
		return None[string]()
	}
	return Some(path)
}

// SetMetalavaJarPath points this scope at a custom Metalava JAR.
func (s *Scope) SetMetalavaJarPath(path string) { s.assignKey(KeyMetalavaJarPath, path) }

// JavaSourceLevel is the source level for Java sources.
func (s *Scope) JavaSourceLevel() JavaVersion { return resolveAs[JavaVersion](s, KeyJavaSourceLevel) }

// SetJavaSourceLevel sets the Java source level for this scope.
func (s *Scope) SetJavaSourceLevel(level JavaVersion) { s.assignKey(KeyJavaSourceLevel, level) }

// Format is the signature file format version.
func (s *Scope) Format() Format { return resolveAs[Format](s, KeyFormat) }

// SetFormat sets the signature file format for this scope.
func (s *Scope) SetFormat(format Format) { s.assignKey(KeyFormat, format) }

// Signature selects the API surface written.
func (s *Scope) Signature() Signature { return resolveAs[Signature](s, KeySignature) }

// SetSignature selects the API surface written for this scope.
func (s *Scope) SetSignature(signature Signature) { s.assignKey(KeySignature, signature) }

// Filename is the signature output file. Without an override anywhere in
// the chain it is api/<version>.api, where version is the root project's
// version or "current" when the root version is unspecified.
func (s *Scope) Filename() string { return resolveAs[string](s, KeyFilename) }

// SetFilename overrides the signature output file.
func (s *Scope) SetFilename(filename string) { s.assignKey(KeyFilename, filename) }

// Documentation is the lowest member visibility included.
func (s *Scope) Documentation() Documentation {
	return resolveAs[Documentation](s, KeyDocumentation)
}

// SetDocumentation sets the lowest member visibility included.
func (s *Scope) SetDocumentation(level Documentation) { s.assignKey(KeyDocumentation, level) }

// OutputKotlinNulls reports whether nullness is written as Kotlin ?, ! markers.
func (s *Scope) OutputKotlinNulls() bool { return resolveAs[bool](s, KeyOutputKotlinNulls) }

// SetOutputKotlinNulls toggles Kotlin style nullness in the output.
func (s *Scope) SetOutputKotlinNulls(enabled bool) { s.assignKey(KeyOutputKotlinNulls, enabled) }

// OutputDefaultValues reports whether default parameter values are written.
func (s *Scope) OutputDefaultValues() bool { return resolveAs[bool](s, KeyOutputDefaultValues) }

// SetOutputDefaultValues toggles default parameter values in the output.
func (s *Scope) SetOutputDefaultValues(enabled bool) { s.assignKey(KeyOutputDefaultValues, enabled) }

// IncludeSignatureVersion reports whether the format version header is written.
func (s *Scope) IncludeSignatureVersion() bool {
	return resolveAs[bool](s, KeyIncludeSignatureVersion)
}

// SetIncludeSignatureVersion toggles the format version header.
func (s *Scope) SetIncludeSignatureVersion(enabled bool) {
	s.assignKey(KeyIncludeSignatureVersion, enabled)
}

// HiddenPackages returns the resolved hidden packages, sorted. The result is
// a copy; use AddHiddenPackages or MaterializeHiddenPackages to change the
// scope.
func (s *Scope) HiddenPackages() []string {
	return resolveAs[*StringSet](s, KeyHiddenPackages).Values()
}

// SetHiddenPackages replaces the local hidden package set.
func (s *Scope) SetHiddenPackages(packages ...string) {
	s.assignKey(KeyHiddenPackages, NewStringSet(packages...))
}

// AddHiddenPackages adds packages to the local set, seeding it from the
// parent chain on first use.
func (s *Scope) AddHiddenPackages(packages ...string) {
	s.addItems(descriptorIndex[KeyHiddenPackages], packages)
}

// MaterializeHiddenPackages returns the local hidden package set, copying
// the inherited set into the scope on first call.
func (s *Scope) MaterializeHiddenPackages() *StringSet {
	return s.materialize(descriptorIndex[KeyHiddenPackages])
}

// HiddenAnnotations returns the resolved hidden annotations, sorted.
func (s *Scope) HiddenAnnotations() []string {
	return resolveAs[*StringSet](s, KeyHiddenAnnotations).Values()
}

// SetHiddenAnnotations replaces the local hidden annotation set.
func (s *Scope) SetHiddenAnnotations(annotations ...string) {
	s.assignKey(KeyHiddenAnnotations, NewStringSet(annotations...))
}

// AddHiddenAnnotations adds annotations to the local set, seeding it from the
// parent chain on first use.
func (s *Scope) AddHiddenAnnotations(annotations ...string) {
	s.addItems(descriptorIndex[KeyHiddenAnnotations], annotations)
}

// MaterializeHiddenAnnotations returns the local hidden annotation set,
// copying the inherited set into the scope on first call.
func (s *Scope) MaterializeHiddenAnnotations() *StringSet {
	return s.materialize(descriptorIndex[KeyHiddenAnnotations])
}

// InputKotlinNulls reports whether input signatures use Kotlin style nullness.
func (s *Scope) InputKotlinNulls() bool { return resolveAs[bool](s, KeyInputKotlinNulls) }

// SetInputKotlinNulls toggles Kotlin style nullness for input signatures.
func (s *Scope) SetInputKotlinNulls(enabled bool) { s.assignKey(KeyInputKotlinNulls, enabled) }

// ReportWarningsAsErrors reports whether all warnings fail the build.
func (s *Scope) ReportWarningsAsErrors() bool { return resolveAs[bool](s, KeyReportWarningsAsErrors) }

// SetReportWarningsAsErrors promotes all warnings to errors.
func (s *Scope) SetReportWarningsAsErrors(enabled bool) {
	s.assignKey(KeyReportWarningsAsErrors, enabled)
}

// ReportLintsAsErrors reports whether API lint warnings fail the build.
func (s *Scope) ReportLintsAsErrors() bool { return resolveAs[bool](s, KeyReportLintsAsErrors) }

// SetReportLintsAsErrors promotes API lint warnings to errors.
func (s *Scope) SetReportLintsAsErrors(enabled bool) { s.assignKey(KeyReportLintsAsErrors, enabled) }

// IgnoreUnsupportedModules skips modules the tool cannot handle instead of
// failing the build.
func (s *Scope) IgnoreUnsupportedModules() bool {
	return resolveAs[bool](s, KeyIgnoreUnsupportedModules)
}

// SetIgnoreUnsupportedModules skips unsupported modules instead of failing.
func (s *Scope) SetIgnoreUnsupportedModules(enabled bool) {
	s.assignKey(KeyIgnoreUnsupportedModules, enabled)
}

// AndroidVariantName is the Android variant used to resolve the classpath.
func (s *Scope) AndroidVariantName() string { return resolveAs[string](s, KeyAndroidVariantName) }

// SetAndroidVariantName sets the variant used to resolve the classpath.
func (s *Scope) SetAndroidVariantName(variant string) { s.assignKey(KeyAndroidVariantName, variant) }
