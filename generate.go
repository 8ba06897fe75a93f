package loglayout

//go:generate -command MOCKGEN sh -c "$(git rev-parse --show-toplevel)/.buildcache/bin/$DOLLAR{DOLLAR}0 \"$DOLLAR{DOLLAR}@\"" mockgen
//go:generate MOCKGEN -destination=mock.layout_test.go -package=loglayout_test . Layout
