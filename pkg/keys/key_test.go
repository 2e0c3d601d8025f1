package keys

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"testing"
)

func TestKeyAddress(t *testing.T) {
	// Private key 1 is the generator point.
	data, err := hex.DecodeString("0000000000000000000000000000000000000000000000000000000000000001")
	if err != nil {
		t.Fatal(err)
	}

	key, err := KeyFromBytes(data)
	if err != nil {
		t.Fatal(err)
	}

	want := "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH"
	if key.Address().String() != want {
		t.Errorf("Address: got %s, want %s", key.Address().String(), want)
	}

	wantHash := "751e76e8199196d454941c45d1b3a323f1433bd6"
	if hex.EncodeToString(key.Address().Bytes()) != wantHash {
		t.Errorf("Address hash: got %x, want %s", key.Address().Bytes(), wantHash)
	}
}

func TestKeyString(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatal(err)
	}

	reverseKey, err := DecodeKeyString(key.String())
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(reverseKey.Number(), key.Number()) {
		t.Errorf("WIF decode: got %x, want %x", reverseKey.Number(), key.Number())
	}

	if _, err := DecodeKeyString(key.Address().String()); err == nil {
		t.Errorf("Decoded an address as a key")
	}
}

func TestSignVerify(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	other, err := GenerateKey()
	if err != nil {
		t.Fatal(err)
	}

	hash := DoubleSha256([]byte("registerAirline"))

	sig, err := key.Sign(hash)
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := SignatureFromStr(sig.String())
	if err != nil {
		t.Fatal(err)
	}

	pubkey, err := PublicKeyFromStr(key.PublicKey().String())
	if err != nil {
		t.Fatal(err)
	}

	if !parsed.Verify(hash, pubkey) {
		t.Errorf("Signature did not verify")
	}

	if parsed.Verify(hash, other.PublicKey()) {
		t.Errorf("Signature verified with wrong key")
	}

	if parsed.Verify(DoubleSha256([]byte("fundAirline")), pubkey) {
		t.Errorf("Signature verified with wrong hash")
	}

	if !pubkey.Address().Equal(key.Address()) {
		t.Errorf("Public key address mismatch")
	}
}

func TestAddressJSON(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	address := key.Address()

	flags := map[Address]bool{address: true}
	b, err := json.Marshal(flags)
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[Address]bool
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}

	if !decoded[address] {
		t.Errorf("Address key lost in JSON : %s", string(b))
	}
}

func TestDecodeAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		wantErr bool
	}{
		{"valid", "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH", false},
		{"bad checksum", "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMJ", true},
		{"empty", "", true},
		{"testnet version", "mrCDrCybB6J1vRfbwM5hemdJz73FwDBC8r", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAddress(tt.address)
			if (err != nil) != tt.wantErr {
				t.Errorf("DecodeAddress(%q) error = %v, wantErr %v", tt.address, err, tt.wantErr)
			}
		})
	}
}
