package config

const (
	defaultWorkDir          = "~/.local/share/m4bforge/work"
	defaultLogDir           = "~/.local/share/m4bforge/logs"
	defaultOutputDir        = "~/audiobooks"
	defaultChapterMode      = "dir"
	defaultProbeParallelism = 4
	defaultFFprobeBinary    = "ffprobe"
	defaultFFmpegBinary     = "ffmpeg"
	defaultAtomicParsley    = "AtomicParsley"
	defaultFallbackCharset  = "windows-1251"
	defaultAudioBitrate     = "64k"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:   defaultWorkDir,
			LogDir:    defaultLogDir,
			OutputDir: defaultOutputDir,
		},
		Scan: Scan{
			Extensions: []string{"mp3", "m4a", "m4b", "aac", "flac", "ogg", "wav"},
			Recursive:  false,
			ImageNames: []string{
				"artwork.jpg", "artwork.png",
				"cover.jpeg", "cover.jpg", "cover.png",
				"folder.jpg", "folder.png",
				"front.jpg", "front.png",
			},
		},
		Chapters: Chapters{
			Mode: defaultChapterMode,
		},
		Probe: Probe{
			Parallelism:   defaultProbeParallelism,
			CacheEnabled:  true,
			CachePath:     defaultProbeCachePath(),
			FFprobeBinary: defaultFFprobeBinary,
		},
		Encoding: Encoding{
			FFmpegBinary:        defaultFFmpegBinary,
			AtomicParsleyBinary: defaultAtomicParsley,
			FallbackCharset:     defaultFallbackCharset,
			CopyCodec:           true,
			AudioBitrate:        defaultAudioBitrate,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
