package run

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/quire/builder/utils"
)

// postProcess minifies and precompresses rendered outputs when configured,
// then fingerprints the staging tree.
func (b *Builder) postProcess(st *runState) error {
	out := b.cfg.Output
	if (out.Minify || out.Precompress) && len(st.rendered) > 0 {
		err := utils.RunAll(st.ctx, st.rendered, func(path string) error {
			return b.optimize(path, out.Minify, out.Precompress)
		})
		if err != nil {
			return err
		}
		if out.Minify {
			st.metrics.FilesMinified = len(st.rendered)
		}
		if out.Precompress {
			st.metrics.FilesCompressed = len(st.rendered)
		}
	}

	staged, err := utils.HashDir(b.site.Fs, b.stagingDir())
	if err != nil {
		return fmt.Errorf("failed to fingerprint staging: %w", err)
	}
	live, err := utils.HashDir(b.site.Fs, b.liveDir())
	if err != nil {
		return fmt.Errorf("failed to fingerprint live tree: %w", err)
	}
	st.fingerprint = staged
	st.changed = staged != live
	b.logger.Debug("Fingerprinted output", "fingerprint", staged, "changed", st.changed)
	return nil
}

func (b *Builder) optimize(path string, minify, precompress bool) error {
	data, err := afero.ReadFile(b.site.Fs, path)
	if err != nil {
		return err
	}
	if minify {
		min, err := utils.MinifyBytes(utils.MediaType(path), data)
		if err != nil {
			return fmt.Errorf("failed to minify %s: %w", path, err)
		}
		if err := afero.WriteFile(b.site.Fs, path, min, 0644); err != nil {
			return err
		}
		data = min
	}
	if precompress {
		gz, err := utils.GzipBytes(data)
		if err != nil {
			return fmt.Errorf("failed to compress %s: %w", path, err)
		}
		if err := afero.WriteFile(b.site.Fs, path+utils.GzipExt, gz, 0644); err != nil {
			return err
		}
	}
	return nil
}
