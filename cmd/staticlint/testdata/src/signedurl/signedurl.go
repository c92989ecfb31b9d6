package signedurl

import "fmt"

type SignedURL string

type SugaredLogger struct{}

func (l *SugaredLogger) Infow(msg string, kv ...interface{})      {}
func (l *SugaredLogger) Errorf(format string, args ...interface{}) {}
func (l *SugaredLogger) Debug(args ...interface{})                 {}

type auditSink struct{}

func (auditSink) Record(args ...interface{}) {}

func issue(log *SugaredLogger, blobPath string) {
	u := SignedURL("https://acct.blob.core.windows.net/models/" + blobPath + "?sig=secret")

	log.Infow("signed URL issued", "url", u)  // want "signedurllog signed URL passed to Infow"
	log.Errorf("download %s failed", u)       // want "signedurllog signed URL passed to Errorf"
	log.Debug(&u)                             // want "signedurllog signed URL passed to Debug"
	log.Infow("signed URL issued", "blob", blobPath)
	log.Infow("signed URL issued", "url", string(u))

	auditSink{}.Record(u)
	_ = fmt.Errorf("download %s failed", u)
}
