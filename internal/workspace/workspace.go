package workspace

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	editerrors "github.com/temirov/hencsv/internal/errors"
	"github.com/temirov/hencsv/internal/table"
)

const (
	operationReadConstant              = "read"
	operationWriteConstant             = "write"
	operationCopyConstant              = "copy"
	operationListConstant              = "list"
	operationCreateDirectoryConstant   = "create directory"
	inputDirectoryNotDirectoryTemplate = "%s is not a directory"
	directoryPermissionsConstant       = fs.FileMode(0o755)
	copiedFilePermissionsConstant      = fs.FileMode(0o644)
	logMessageScratchReset             = "scratch copy reset from input"
	logMessageScratchSaved             = "scratch copy saved"
	logMessagePromoted                 = "scratch copy promoted to output"
	logFieldFilename                   = "filename"
	logFieldSourcePath                 = "source_path"
	logFieldDestinationPath            = "destination_path"
)

// FilePaths lists the locations of one logical file across the workspace directories.
type FilePaths struct {
	Input     string
	Secondary string
	Output    string
	Scratch   string
}

// Workspace resolves and manages files across the input, secondary, output, and scratch directories.
type Workspace struct {
	configuration Configuration
	logger        *zap.Logger
}

// New constructs a Workspace for the provided directory configuration.
func New(configuration Configuration, logger *zap.Logger) *Workspace {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workspace{configuration: configuration.sanitize(), logger: logger}
}

// Configuration returns the sanitized directory configuration.
func (workspace *Workspace) Configuration() Configuration {
	return workspace.configuration
}

// Paths computes the four paths of filename.
func (workspace *Workspace) Paths(filename string) FilePaths {
	return FilePaths{
		Input:     filepath.Join(workspace.configuration.InputDirectory, filename),
		Secondary: filepath.Join(workspace.configuration.SecondaryDirectory, filename),
		Output:    filepath.Join(workspace.configuration.OutputDirectory, filename),
		Scratch:   filepath.Join(workspace.configuration.ScratchDirectory, filename),
	}
}

// Prepare verifies the input directory and creates the output and scratch directories when missing.
func (workspace *Workspace) Prepare() error {
	inputInfo, statError := os.Stat(workspace.configuration.InputDirectory)
	if statError != nil {
		return editerrors.IOError{Operation: operationReadConstant, Path: workspace.configuration.InputDirectory, Cause: statError}
	}
	if !inputInfo.IsDir() {
		return editerrors.IOError{
			Operation: operationReadConstant,
			Path:      workspace.configuration.InputDirectory,
			Cause:     fmt.Errorf(inputDirectoryNotDirectoryTemplate, workspace.configuration.InputDirectory),
		}
	}

	for _, directory := range []string{workspace.configuration.OutputDirectory, workspace.configuration.ScratchDirectory} {
		if mkdirError := os.MkdirAll(directory, directoryPermissionsConstant); mkdirError != nil {
			return editerrors.IOError{Operation: operationCreateDirectoryConstant, Path: directory, Cause: mkdirError}
		}
	}
	return nil
}

// InputFiles lists regular files of the input directory in the order the filesystem enumerates them.
func (workspace *Workspace) InputFiles() ([]string, error) {
	directory, openError := os.Open(workspace.configuration.InputDirectory)
	if openError != nil {
		return nil, editerrors.IOError{Operation: operationListConstant, Path: workspace.configuration.InputDirectory, Cause: openError}
	}
	defer directory.Close()

	entries, readError := directory.ReadDir(-1)
	if readError != nil {
		return nil, editerrors.IOError{Operation: operationListConstant, Path: workspace.configuration.InputDirectory, Cause: readError}
	}

	filenames := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		filenames = append(filenames, entry.Name())
	}
	return filenames, nil
}

// HasScratch reports whether filename already has a scratch copy.
func (workspace *Workspace) HasScratch(filename string) (bool, error) {
	scratchPath := workspace.Paths(filename).Scratch
	_, statError := os.Stat(scratchPath)
	switch {
	case statError == nil:
		return true, nil
	case errors.Is(statError, fs.ErrNotExist):
		return false, nil
	default:
		return false, editerrors.IOError{Operation: operationReadConstant, Path: scratchPath, Cause: statError}
	}
}

// ResetScratch overwrites the scratch copy of filename with its pristine input.
func (workspace *Workspace) ResetScratch(filename string) error {
	paths := workspace.Paths(filename)
	if copyError := copyFile(paths.Input, paths.Scratch); copyError != nil {
		return copyError
	}
	workspace.logger.Debug(logMessageScratchReset, zap.String(logFieldFilename, filename), zap.String(logFieldDestinationPath, paths.Scratch))
	return nil
}

// EnsureScratch creates the scratch copy from the pristine input when it is absent and reports whether it did so.
func (workspace *Workspace) EnsureScratch(filename string) (bool, error) {
	exists, existsError := workspace.HasScratch(filename)
	if existsError != nil {
		return false, existsError
	}
	if exists {
		return false, nil
	}
	if resetError := workspace.ResetScratch(filename); resetError != nil {
		return false, resetError
	}
	return true, nil
}

// LoadPristine reads the untouched input copy of filename.
func (workspace *Workspace) LoadPristine(filename string) (*table.Table, error) {
	return readTable(workspace.Paths(filename).Input)
}

// LoadScratch reads the scratch copy of filename.
func (workspace *Workspace) LoadScratch(filename string) (*table.Table, error) {
	return readTable(workspace.Paths(filename).Scratch)
}

// LoadWorking reads the scratch copy of filename when present and the pristine input otherwise.
func (workspace *Workspace) LoadWorking(filename string) (*table.Table, error) {
	exists, existsError := workspace.HasScratch(filename)
	if existsError != nil {
		return nil, existsError
	}
	if exists {
		return workspace.LoadScratch(filename)
	}
	return workspace.LoadPristine(filename)
}

// SaveScratch persists current as the scratch copy of filename.
func (workspace *Workspace) SaveScratch(filename string, current *table.Table) error {
	scratchPath := workspace.Paths(filename).Scratch
	if writeError := table.WriteFile(scratchPath, current); writeError != nil {
		return editerrors.IOError{Operation: operationWriteConstant, Path: scratchPath, Cause: writeError}
	}
	workspace.logger.Debug(logMessageScratchSaved, zap.String(logFieldFilename, filename), zap.String(logFieldDestinationPath, scratchPath))
	return nil
}

// RestorePristine resets the scratch copy of filename and reloads it.
func (workspace *Workspace) RestorePristine(filename string) (*table.Table, error) {
	if resetError := workspace.ResetScratch(filename); resetError != nil {
		return nil, resetError
	}
	return workspace.LoadScratch(filename)
}

// Promote copies the scratch copy of filename into the output directory and returns the destination path.
func (workspace *Workspace) Promote(filename string) (string, error) {
	paths := workspace.Paths(filename)
	if copyError := copyFile(paths.Scratch, paths.Output); copyError != nil {
		return "", copyError
	}
	workspace.logger.Info(
		logMessagePromoted,
		zap.String(logFieldFilename, filename),
		zap.String(logFieldSourcePath, paths.Scratch),
		zap.String(logFieldDestinationPath, paths.Output),
	)
	return paths.Output, nil
}

// SecondaryDirectory returns the directory searched for join sources.
func (workspace *Workspace) SecondaryDirectory() string {
	return workspace.configuration.SecondaryDirectory
}

// ResolveSecondary maps a join source reference to a path. Bare names resolve
// inside the secondary directory; references containing a directory are used as given.
func (workspace *Workspace) ResolveSecondary(reference string) string {
	if filepath.IsAbs(reference) || filepath.Base(reference) != reference {
		return reference
	}
	return filepath.Join(workspace.configuration.SecondaryDirectory, reference)
}

// LoadSecondary reads the join source identified by reference.
func (workspace *Workspace) LoadSecondary(reference string) (*table.Table, error) {
	return readTable(workspace.ResolveSecondary(reference))
}

func readTable(path string) (*table.Table, error) {
	loaded, readError := table.ReadFile(path)
	if readError != nil {
		return nil, editerrors.IOError{Operation: operationReadConstant, Path: path, Cause: readError}
	}
	return loaded, nil
}

func copyFile(sourcePath string, destinationPath string) error {
	source, openError := os.Open(sourcePath)
	if openError != nil {
		return editerrors.IOError{Operation: operationCopyConstant, Path: sourcePath, Cause: openError}
	}
	defer source.Close()

	destination, createError := os.OpenFile(destinationPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, copiedFilePermissionsConstant)
	if createError != nil {
		return editerrors.IOError{Operation: operationCopyConstant, Path: destinationPath, Cause: createError}
	}

	if _, copyError := io.Copy(destination, source); copyError != nil {
		destination.Close()
		return editerrors.IOError{Operation: operationCopyConstant, Path: destinationPath, Cause: copyError}
	}
	if closeError := destination.Close(); closeError != nil {
		return editerrors.IOError{Operation: operationCopyConstant, Path: destinationPath, Cause: closeError}
	}
	return nil
}
