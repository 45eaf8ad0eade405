package flattening

import (
	"path/filepath"

	"github.com/crytic/solflat/utils"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// flattenedFileSuffix describes the suffix appended to the base name of a flattened target.
const flattenedFileSuffix = "_flattened"

// OutputFilePath returns the path the flattened form of the provided target is written to within the provided output
// directory: `<name>_flattened<ext>`, where `<name>` and `<ext>` are taken from the target's base name.
func OutputFilePath(outputDirectory string, targetPath string) string {
	fileName := utils.GetFileNameWithoutExtension(targetPath) + flattenedFileSuffix + filepath.Ext(targetPath)
	return filepath.Join(outputDirectory, fileName)
}

// WriteToDirectory writes the flattened text of the Result for the provided target into the provided output
// directory, creating the directory if it does not exist. An existing file at the output path is overwritten.
// Returns the path written to, or an error if one occurred.
func (r *Result) WriteToDirectory(fs afero.Fs, outputDirectory string, targetPath string) (string, error) {
	if outputDirectory != "" {
		err := fs.MkdirAll(outputDirectory, 0755)
		if err != nil {
			return "", errors.WithStack(err)
		}
	}

	outputPath := OutputFilePath(outputDirectory, targetPath)
	err := afero.WriteFile(fs, outputPath, []byte(r.Text()), 0644)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return outputPath, nil
}
