// Package condaforge looks up packages on the conda-forge channel.
//
// # Overview
//
// recipesync reports, for every recipe it checks, whether conda-forge
// already ships the package and whether conda-forge is ahead of the local
// recipe. The data comes from https://api.anaconda.org/package/conda-forge/{name}.
//
// # Usage
//
//	client := condaforge.NewClient(cache.NewNullCache(), time.Hour)
//	info, err := client.Lookup(ctx, "ripgrep", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(info.Exists, info.Latest)
//
// A package the channel does not carry is reported as Info{Exists: false},
// not as an error.
package condaforge
